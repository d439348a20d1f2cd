package port

import (
	"context"

	"github.com/arklim/article-service/internal/core/domain"
)

// UserRepository exposes persistence behavior for article writers.
type UserRepository interface {
	Create(ctx context.Context, username string) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
