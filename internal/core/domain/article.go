package domain

import "strings"

// ArticleResource is the resource name carried by article errors.
const ArticleResource = "Article"

// Article mirrors the persisted representation in the articles table.
// ID is zero until the store assigns one.
type Article struct {
	ID       int64
	Title    string
	Content  string
	WriterID int64
}

// NewArticle builds an unsaved article owned by writerID.
func NewArticle(title, content string, writerID int64) Article {
	return Article{
		Title:    title,
		Content:  content,
		WriterID: writerID,
	}
}

// Persisted reports whether the store has assigned an identifier.
func (a Article) Persisted() bool {
	return a.ID != 0
}

// ArticleUpdate carries the requested field changes. Nil fields are left untouched.
type ArticleUpdate struct {
	Title   *string
	Content *string
}

// NewArticleUpdate drops empty or whitespace-only values so they count as absent.
func NewArticleUpdate(title, content *string) ArticleUpdate {
	return ArticleUpdate{
		Title:   presentOrNil(title),
		Content: presentOrNil(content),
	}
}

// IsEmpty reports whether no field is requested.
func (u ArticleUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil
}

// Apply returns a copy of article with the requested fields replaced.
func (u ArticleUpdate) Apply(article Article) Article {
	if u.Title != nil {
		article.Title = *u.Title
	}
	if u.Content != nil {
		article.Content = *u.Content
	}
	return article
}

func presentOrNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	v := *value
	return &v
}

// MutationOutcome is the combined observation of a single ownership-checked delete or update.
type MutationOutcome struct {
	Exists     bool
	Authorized bool
	Affected   int64
}

// Err derives the typed result. Existence is checked before authorization; a row that
// existed and was owned but was not changed was removed concurrently and reports NotFound.
func (o MutationOutcome) Err(resource string) error {
	switch {
	case !o.Exists:
		return NotFound(resource)
	case !o.Authorized:
		return Unauthorized(resource)
	case o.Affected == 0:
		return NotFound(resource)
	default:
		return nil
	}
}
