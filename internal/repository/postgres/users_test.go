package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"go.uber.org/zap/zaptest"

	"github.com/arklim/article-service/internal/core/domain"
)

func newMockUserRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	return NewUserRepository(mock, zaptest.NewLogger(t)), mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`INSERT INTO users \(username\) VALUES \(\$1\) RETURNING id`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Create(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateDuplicated(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "alice")
	if !errors.Is(err, domain.ErrDuplicated) {
		t.Fatalf("expected duplicated, got %v", err)
	}

	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Resource != domain.UserResource {
		t.Fatalf("expected user resource, got %v", err)
	}
}

func TestUserRepository_CreateRejectsEmptyUsername(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	if _, err := repo.Create(context.Background(), ""); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`SELECT id, username FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username"}).AddRow(int64(7), "alice"))

	user, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if user.ID != 7 || user.Username != "alice" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestUserRepository_GetByUsernameNotFound(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`SELECT id, username FROM users`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
