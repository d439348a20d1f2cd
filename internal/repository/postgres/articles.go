package postgres

import (
	"context"
	"errors"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/arklim/article-service/internal/core/domain"
	"github.com/arklim/article-service/internal/core/port"
)

const articlesTable = "articles"

var articleColumns = []string{"id", "title", "content", "writer_id"}

// ArticleRepository implements port.ArticleRepository using PostgreSQL.
type ArticleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
	log     *zap.Logger
	timeout time.Duration
}

// NewArticleRepository wires a PostgreSQL-backed article repository.
func NewArticleRepository(exec pgExecutor, log *zap.Logger) *ArticleRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArticleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log:     log,
	}
}

// WithStatementTimeout bounds every round trip, including the wait for a pooled connection.
func (r *ArticleRepository) WithStatementTimeout(timeout time.Duration) *ArticleRepository {
	r.timeout = timeout
	return r
}

func (r *ArticleRepository) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Save inserts a new article row and returns the identifier assigned by the store.
func (r *ArticleRepository) Save(ctx context.Context, article domain.Article) (int64, error) {
	ctx, span := startSpan(ctx, articlesTable, "ArticleRepository.Save", "INSERT",
		attribute.Int64("article.writer_id", article.WriterID),
	)
	defer span.End()

	stmt, args, err := r.builder.Insert(articlesTable).
		Columns("title", "content", "writer_id").
		Values(article.Title, article.Content, article.WriterID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, report(ctx, r.log, span, domain.Unexpected("build insert article sql", err))
	}

	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, report(ctx, r.log, span, classify(domain.ArticleResource, "insert article", err))
	}

	span.SetAttributes(attribute.Int64("article.id", id))
	return id, nil
}

// GetByID retrieves an article by identifier.
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	ctx, span := startSpan(ctx, articlesTable, "ArticleRepository.GetByID", "SELECT",
		attribute.Int64("article.id", id),
	)
	defer span.End()

	stmt, args, err := r.builder.
		Select(articleColumns...).
		From(articlesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, report(ctx, r.log, span, domain.Unexpected("build select article sql", err))
	}

	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var article domain.Article
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.WriterID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.ArticleResource)
		}
		return nil, report(ctx, r.log, span, classify(domain.ArticleResource, "select article", err))
	}

	return &article, nil
}

// List returns every article ordered by identifier.
func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	ctx, span := startSpan(ctx, articlesTable, "ArticleRepository.List", "SELECT")
	defer span.End()

	stmt, args, err := r.builder.
		Select(articleColumns...).
		From(articlesTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, report(ctx, r.log, span, domain.Unexpected("build list articles sql", err))
	}

	ctx, cancel := r.bounded(ctx)
	defer cancel()

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, report(ctx, r.log, span, classify(domain.ArticleResource, "query articles", err))
	}
	defer rows.Close()

	articles := make([]domain.Article, 0)
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.WriterID,
		); err != nil {
			return nil, report(ctx, r.log, span, classify(domain.ArticleResource, "scan article", err))
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, report(ctx, r.log, span, classify(domain.ArticleResource, "iterate articles", err))
	}

	span.SetAttributes(attribute.Int("article.count", len(articles)))
	return articles, nil
}

var _ port.ArticleRepository = (*ArticleRepository)(nil)
