// Package memory provides an in-process article store with the same outcome
// semantics as the PostgreSQL repository.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/arklim/article-service/internal/core/domain"
	"github.com/arklim/article-service/internal/core/port"
)

var errUnknownWriter = errors.New("writer does not exist")

// ArticleRepository keeps articles in a map guarded by a single lock, so every
// check and mutation happens under one observation.
type ArticleRepository struct {
	mu       sync.RWMutex
	nextID   int64
	articles map[int64]domain.Article
	writers  map[int64]struct{}
}

// NewArticleRepository creates an empty store. When writers are given, Save
// rejects any other writer id the way a foreign key would.
func NewArticleRepository(writers ...int64) *ArticleRepository {
	r := &ArticleRepository{articles: make(map[int64]domain.Article)}
	if len(writers) > 0 {
		r.writers = make(map[int64]struct{}, len(writers))
		for _, id := range writers {
			r.writers[id] = struct{}{}
		}
	}
	return r
}

func (r *ArticleRepository) Save(ctx context.Context, article domain.Article) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.StorageFailure("insert article", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writers != nil {
		if _, ok := r.writers[article.WriterID]; !ok {
			return 0, domain.StorageFailure("insert article", errUnknownWriter)
		}
	}

	r.nextID++
	article.ID = r.nextID
	r.articles[article.ID] = article
	return article.ID, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StorageFailure("select article", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	article, ok := r.articles[id]
	if !ok {
		return nil, domain.NotFound(domain.ArticleResource)
	}
	return &article, nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StorageFailure("query articles", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	articles := make([]domain.Article, 0, len(r.articles))
	for _, article := range r.articles {
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID < articles[j].ID })
	return articles, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, callerID, id int64) error {
	return r.mutate(ctx, callerID, id, func(domain.Article) (domain.Article, bool) {
		return domain.Article{}, false
	})
}

func (r *ArticleRepository) Update(ctx context.Context, callerID, id int64, update domain.ArticleUpdate) error {
	if update.IsEmpty() {
		return domain.Invalid(domain.ArticleResource)
	}
	return r.mutate(ctx, callerID, id, func(current domain.Article) (domain.Article, bool) {
		return update.Apply(current), true
	})
}

// mutate replaces the row with change's result, or removes it when keep is false.
func (r *ArticleRepository) mutate(ctx context.Context, callerID, id int64, change func(domain.Article) (domain.Article, bool)) error {
	if err := ctx.Err(); err != nil {
		return domain.StorageFailure("mutate article", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.articles[id]
	outcome := domain.MutationOutcome{
		Exists:     exists,
		Authorized: exists && current.WriterID == callerID,
	}

	if outcome.Authorized {
		if next, keep := change(current); keep {
			r.articles[id] = next
		} else {
			delete(r.articles, id)
		}
		outcome.Affected = 1
	}

	return outcome.Err(domain.ArticleResource)
}

var _ port.ArticleRepository = (*ArticleRepository)(nil)
