package postgres

import (
	"context"
	"errors"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/arklim/article-service/internal/core/domain"
	"github.com/arklim/article-service/internal/core/port"
)

const usersTable = "users"

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
	log     *zap.Logger
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(exec pgExecutor, log *zap.Logger) *UserRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log:     log,
	}
}

// Create inserts a writer and returns its identifier.
func (r *UserRepository) Create(ctx context.Context, username string) (int64, error) {
	ctx, span := startSpan(ctx, usersTable, "UserRepository.Create", "INSERT")
	defer span.End()

	if username == "" {
		return 0, domain.Invalid(domain.UserResource)
	}

	stmt, args, err := r.builder.Insert(usersTable).
		Columns("username").
		Values(username).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, report(ctx, r.log, span, domain.Unexpected("build insert user sql", err))
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, report(ctx, r.log, span, classify(domain.UserResource, "insert user", err))
	}

	span.SetAttributes(attribute.Int64("user.id", id))
	return id, nil
}

// GetByUsername retrieves a writer by its unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := startSpan(ctx, usersTable, "UserRepository.GetByUsername", "SELECT")
	defer span.End()

	stmt, args, err := r.builder.
		Select("id", "username").
		From(usersTable).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, report(ctx, r.log, span, domain.Unexpected("build select user sql", err))
	}

	var user domain.User
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&user.ID, &user.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.UserResource)
		}
		return nil, report(ctx, r.log, span, classify(domain.UserResource, "select user", err))
	}

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
