package port

import (
	"context"

	"github.com/arklim/article-service/internal/core/domain"
)

// ArticleRepository exposes persistence behavior for articles.
//
// Delete and Update check existence and ownership in the same observation as the
// mutation and report domain.ErrNotFound before domain.ErrUnauthorized.
type ArticleRepository interface {
	Save(ctx context.Context, article domain.Article) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	Delete(ctx context.Context, callerID, id int64) error
	Update(ctx context.Context, callerID, id int64, update domain.ArticleUpdate) error
}
