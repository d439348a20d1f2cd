package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arklim/article-service/internal/core/domain"
	"github.com/arklim/article-service/internal/infra/logger"
)

// SQLSTATE unique_violation.
const uniqueViolation = "23505"

var tracer = otel.Tracer("repository/postgres")

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func startSpan(ctx context.Context, table, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	base := []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	}
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(base, attrs...)...),
	)
}

// classify maps a failure reported while executing a statement onto the domain taxonomy.
func classify(resource, op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.Duplicated(resource)
	}
	return domain.StorageFailure(op, err)
}

// report logs internal faults and marks the span; routine kinds pass through silently.
func report(ctx context.Context, log *zap.Logger, span trace.Span, err error) error {
	kind := domain.KindOf(err)
	if !kind.IsInternal() {
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))
	log.Error("statement failed",
		zap.String("request_id", logger.RequestID(ctx)),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	return err
}
