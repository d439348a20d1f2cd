package postgres

import (
	"context"
	"errors"

	squirrel "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arklim/article-service/internal/core/domain"
)

// ownershipPrefix observes existence and ownership of the target row in the same
// snapshot as the mutation that fills the last placeholder.
const ownershipPrefix = "WITH target AS (SELECT id, writer_id FROM articles WHERE id = ?), " +
	"authority AS (SELECT EXISTS (SELECT 1 FROM target WHERE writer_id = ?) AS granted), " +
	"mutated AS (?)"

const authorityGranted = "(SELECT granted FROM authority)"

var outcomeColumns = []string{
	"EXISTS (SELECT 1 FROM target) AS is_exist",
	"(SELECT granted FROM authority) AS is_authorized",
	"(SELECT COUNT(*) FROM mutated) AS affected",
}

var errNoUpdateFields = errors.New("no fields to update")

// articleField describes a column a partial update may set. The order of
// articleUpdateFields is the order placeholders are emitted and values bound.
type articleField struct {
	column string
	value  func(domain.ArticleUpdate) *string
}

var articleUpdateFields = []articleField{
	{column: "title", value: func(u domain.ArticleUpdate) *string { return u.Title }},
	{column: "content", value: func(u domain.ArticleUpdate) *string { return u.Content }},
}

// Delete removes the article when it exists and is owned by callerID.
func (r *ArticleRepository) Delete(ctx context.Context, callerID, id int64) error {
	ctx, span := startSpan(ctx, articlesTable, "ArticleRepository.Delete", "DELETE",
		attribute.Int64("article.id", id),
		attribute.Int64("caller.id", callerID),
	)
	defer span.End()

	stmt, args, err := r.deleteStatement(callerID, id)
	if err != nil {
		return report(ctx, r.log, span, domain.Unexpected("build delete article sql", err))
	}

	return r.mutate(ctx, span, "delete article", stmt, args)
}

// Update sets the requested fields when the article exists and is owned by callerID.
// An update without fields is rejected before any statement is built.
func (r *ArticleRepository) Update(ctx context.Context, callerID, id int64, update domain.ArticleUpdate) error {
	ctx, span := startSpan(ctx, articlesTable, "ArticleRepository.Update", "UPDATE",
		attribute.Int64("article.id", id),
		attribute.Int64("caller.id", callerID),
	)
	defer span.End()

	stmt, args, err := r.updateStatement(callerID, id, update)
	if err != nil {
		if errors.Is(err, errNoUpdateFields) {
			return domain.Invalid(domain.ArticleResource)
		}
		return report(ctx, r.log, span, domain.Unexpected("build update article sql", err))
	}

	return r.mutate(ctx, span, "update article", stmt, args)
}

func (r *ArticleRepository) mutate(ctx context.Context, span trace.Span, op, stmt string, args []any) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var outcome domain.MutationOutcome
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&outcome.Exists,
		&outcome.Authorized,
		&outcome.Affected,
	); err != nil {
		return report(ctx, r.log, span, domain.StorageFailure(op, err))
	}

	span.SetAttributes(
		attribute.Bool("article.exists", outcome.Exists),
		attribute.Bool("article.authorized", outcome.Authorized),
		attribute.Int64("article.affected", outcome.Affected),
	)

	return outcome.Err(domain.ArticleResource)
}

func (r *ArticleRepository) deleteStatement(callerID, id int64) (string, []any, error) {
	mutation := squirrel.Delete(articlesTable).
		Where(squirrel.Eq{"id": id}).
		Where(authorityGranted).
		Suffix("RETURNING id")

	return r.ownershipStatement(mutation, callerID, id)
}

func (r *ArticleRepository) updateStatement(callerID, id int64, update domain.ArticleUpdate) (string, []any, error) {
	mutation := squirrel.Update(articlesTable)

	fields := 0
	for _, field := range articleUpdateFields {
		if value := field.value(update); value != nil {
			mutation = mutation.Set(field.column, *value)
			fields++
		}
	}
	if fields == 0 {
		return "", nil, errNoUpdateFields
	}

	mutation = mutation.
		Where(squirrel.Eq{"id": id}).
		Where(authorityGranted).
		Suffix("RETURNING id")

	return r.ownershipStatement(mutation, callerID, id)
}

// ownershipStatement nests mutation (built with ? placeholders) into the
// ownership CTE; the outer builder renumbers every placeholder in order.
func (r *ArticleRepository) ownershipStatement(mutation squirrel.Sqlizer, callerID, id int64) (string, []any, error) {
	return r.builder.
		Select(outcomeColumns...).
		Prefix(ownershipPrefix, id, callerID, mutation).
		ToSql()
}
