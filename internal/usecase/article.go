package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arklim/article-service/internal/core/domain"
	"github.com/arklim/article-service/internal/core/port"
)

var tracer = otel.Tracer("usecase/article")

// CreateArticleInput captures the payload for creating an article. The writer is
// always the authenticated caller.
type CreateArticleInput struct {
	Title   string
	Content string
}

// CreateArticleResult returns the identifier assigned to the new article.
type CreateArticleResult struct {
	ID int64
}

// UpdateArticleInput captures the requested field changes. Absent or blank fields are left untouched.
type UpdateArticleInput struct {
	Title   *string
	Content *string
}

// ArticleDetail is the read model returned to callers.
type ArticleDetail struct {
	ID       int64
	Title    string
	Content  string
	WriterID int64
}

func detailFromArticle(a domain.Article) ArticleDetail {
	return ArticleDetail{
		ID:       a.ID,
		Title:    a.Title,
		Content:  a.Content,
		WriterID: a.WriterID,
	}
}

// ArticleService orchestrates article operations over a repository.
// Repository errors are returned unchanged.
type ArticleService struct {
	articles port.ArticleRepository
}

// NewArticleService constructs an ArticleService.
func NewArticleService(articles port.ArticleRepository) *ArticleService {
	return &ArticleService{articles: articles}
}

// CreateArticle stores a new article owned by callerID.
func (s *ArticleService) CreateArticle(ctx context.Context, callerID int64, input CreateArticleInput) (CreateArticleResult, error) {
	ctx, span := tracer.Start(ctx, "ArticleService.CreateArticle",
		trace.WithAttributes(attribute.Int64("caller.id", callerID)))
	defer span.End()

	id, err := s.articles.Save(ctx, domain.NewArticle(input.Title, input.Content, callerID))
	if err != nil {
		return CreateArticleResult{}, fail(span, err)
	}

	span.SetAttributes(attribute.Int64("article.id", id))
	return CreateArticleResult{ID: id}, nil
}

// GetArticle returns a single article.
func (s *ArticleService) GetArticle(ctx context.Context, id int64) (ArticleDetail, error) {
	ctx, span := tracer.Start(ctx, "ArticleService.GetArticle",
		trace.WithAttributes(attribute.Int64("article.id", id)))
	defer span.End()

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return ArticleDetail{}, fail(span, err)
	}
	return detailFromArticle(*article), nil
}

// ListArticles returns every article ordered by identifier.
func (s *ArticleService) ListArticles(ctx context.Context) ([]ArticleDetail, error) {
	ctx, span := tracer.Start(ctx, "ArticleService.ListArticles")
	defer span.End()

	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	details := make([]ArticleDetail, 0, len(articles))
	for _, article := range articles {
		details = append(details, detailFromArticle(article))
	}
	return details, nil
}

// UpdateArticle applies the requested changes when callerID owns the article.
func (s *ArticleService) UpdateArticle(ctx context.Context, callerID, id int64, input UpdateArticleInput) error {
	ctx, span := tracer.Start(ctx, "ArticleService.UpdateArticle",
		trace.WithAttributes(
			attribute.Int64("caller.id", callerID),
			attribute.Int64("article.id", id),
		))
	defer span.End()

	update := domain.NewArticleUpdate(input.Title, input.Content)
	if err := s.articles.Update(ctx, callerID, id, update); err != nil {
		return fail(span, err)
	}
	return nil
}

// DeleteArticle removes the article when callerID owns it.
func (s *ArticleService) DeleteArticle(ctx context.Context, callerID, id int64) error {
	ctx, span := tracer.Start(ctx, "ArticleService.DeleteArticle",
		trace.WithAttributes(
			attribute.Int64("caller.id", callerID),
			attribute.Int64("article.id", id),
		))
	defer span.End()

	if err := s.articles.Delete(ctx, callerID, id); err != nil {
		return fail(span, err)
	}
	return nil
}

// fail annotates span with the error kind and returns err untouched.
func fail(span trace.Span, err error) error {
	kind := domain.KindOf(err)
	span.SetAttributes(attribute.String("error.kind", string(kind)))
	if kind.IsInternal() {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
