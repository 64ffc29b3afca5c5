package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-article-cms/app/observability/metrics"
	"github.com/FACorreiaa/go-article-cms/internal/api"
	"github.com/FACorreiaa/go-article-cms/internal/types"
)

var _ ArticleRepo = (*PostgresArticleRepo)(nil)

// ArticleRepo defines the contract for article persistence.
type ArticleRepo interface {
	// CreateArticle inserts a new article. PublishedAt falls back to the
	// insertion time when the params leave it nil.
	CreateArticle(ctx context.Context, params types.CreateArticleParams, authorID uuid.UUID) (*types.Article, error)

	// GetArticleByID returns the article with its author embedded, or
	// types.ErrNotFound.
	GetArticleByID(ctx context.Context, articleID uuid.UUID) (*types.Article, error)

	// ListArticles returns the filtered page plus the pre-pagination total,
	// ordered by published_at descending.
	ListArticles(ctx context.Context, filter types.ArticleFilter) (*types.ArticleList, error)

	// UpdateArticle applies only the non-nil fields of params.
	UpdateArticle(ctx context.Context, articleID uuid.UUID, params types.UpdateArticleParams) error

	// DeleteArticle removes the article, types.ErrNotFound when absent.
	DeleteArticle(ctx context.Context, articleID uuid.UUID) error
}

// PostgresArticleRepo provides the pgx implementation of ArticleRepo.
type PostgresArticleRepo struct {
	logger *slog.Logger
	pgpool api.PostgresPool
}

// NewPostgresArticleRepo creates a new PostgreSQL article repository.
func NewPostgresArticleRepo(pool api.PostgresPool, logger *slog.Logger) *PostgresArticleRepo {
	return &PostgresArticleRepo{
		logger: logger,
		pgpool: pool,
	}
}

const articleSelect = `
	SELECT a.id, a.title, a.description, a.published_at, a.author_id,
	       a.created_at, a.updated_at, u.id, u.email, u.username
	FROM articles a
	JOIN users u ON u.id = a.author_id`

func scanArticle(row pgx.Row) (*types.Article, error) {
	var a types.Article
	var author types.UserSummary
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.PublishedAt, &a.AuthorID,
		&a.CreatedAt, &a.UpdatedAt, &author.ID, &author.Email, &author.Username)
	if err != nil {
		return nil, err
	}
	a.Author = &author
	return &a, nil
}

func (r *PostgresArticleRepo) CreateArticle(ctx context.Context, params types.CreateArticleParams, authorID uuid.UUID) (*types.Article, error) {
	ctx, span := otel.Tracer("ArticleRepo").Start(ctx, "CreateArticle", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "articles"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateArticle"), slog.String("author_id", authorID.String()))

	now := time.Now()
	publishedAt := now
	if params.PublishedAt != nil {
		publishedAt = *params.PublishedAt
	}

	var a types.Article
	err := r.pgpool.QueryRow(ctx, `
		INSERT INTO articles (title, description, published_at, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, title, description, published_at, author_id, created_at, updated_at`,
		params.Title, params.Description, publishedAt, authorID, now).
		Scan(&a.ID, &a.Title, &a.Description, &a.PublishedAt, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert article", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	span.SetStatus(codes.Ok, "article created")
	return &a, nil
}

func (r *PostgresArticleRepo) GetArticleByID(ctx context.Context, articleID uuid.UUID) (*types.Article, error) {
	ctx, span := otel.Tracer("ArticleRepo").Start(ctx, "GetArticleByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "articles"),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx, articleSelect+" WHERE a.id = $1", articleID)
	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("article %s: %w", articleID, types.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query article: %w", err)
	}
	return article, nil
}

// buildFilter translates an ArticleFilter into WHERE conditions with
// positional placeholders. The published range keeps the original
// behaviour: a lone lower bound is capped at "now", a lone upper bound
// applies no constraint at all.
func buildFilter(filter types.ArticleFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.Title != "" {
		conditions = append(conditions, fmt.Sprintf("a.title LIKE '%%' || $%d || '%%'", argID))
		args = append(args, filter.Title)
		argID++
	}
	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("a.author_id = $%d", argID))
		args = append(args, *filter.AuthorID)
		argID++
	}
	switch {
	case filter.PublishedFrom != nil && filter.PublishedTo != nil:
		conditions = append(conditions, fmt.Sprintf("a.published_at BETWEEN $%d AND $%d", argID, argID+1))
		args = append(args, *filter.PublishedFrom, *filter.PublishedTo)
		argID += 2
	case filter.PublishedFrom != nil:
		conditions = append(conditions, fmt.Sprintf("a.published_at BETWEEN $%d AND $%d", argID, argID+1))
		args = append(args, *filter.PublishedFrom, time.Now())
		argID += 2
	}

	return conditions, args
}

func (r *PostgresArticleRepo) ListArticles(ctx context.Context, filter types.ArticleFilter) (*types.ArticleList, error) {
	ctx, span := otel.Tracer("ArticleRepo").Start(ctx, "ListArticles", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "articles"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListArticles"))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	conditions, args := buildFilter(filter)
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	queryStart := time.Now()
	defer func() {
		metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(queryStart).Seconds(),
			metric.WithAttributes(attribute.String("query", "list_articles")))
	}()

	// Total matches before pagination.
	var total int
	countQuery := "SELECT COUNT(*) FROM articles a" + where
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	argID := len(args) + 1
	query := fmt.Sprintf("%s%s ORDER BY a.published_at DESC LIMIT $%d OFFSET $%d",
		articleSelect, where, argID, argID+1)
	pageArgs := append(args, limit, (page-1)*limit)

	l.DebugContext(ctx, "Executing article listing", slog.String("query", query), slog.Int("arg_count", len(pageArgs)))

	rows, err := r.pgpool.Query(ctx, query, pageArgs...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	items := make([]types.Article, 0, limit)
	for rows.Next() {
		var a types.Article
		var author types.UserSummary
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.PublishedAt, &a.AuthorID,
			&a.CreatedAt, &a.UpdatedAt, &author.ID, &author.Email, &author.Username); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		a.Author = &author
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading article rows: %w", err)
	}

	return &types.ArticleList{Items: items, Total: total}, nil
}

func (r *PostgresArticleRepo) UpdateArticle(ctx context.Context, articleID uuid.UUID, params types.UpdateArticleParams) error {
	ctx, span := otel.Tracer("ArticleRepo").Start(ctx, "UpdateArticle", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "articles"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateArticle"), slog.String("article_id", articleID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *params.Title)
		argID++
	}
	if params.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *params.Description)
		argID++
	}
	if params.PublishedAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("published_at = $%d", argID))
		args = append(args, *params.PublishedAt)
		argID++
	}

	if len(setClauses) == 0 {
		l.WarnContext(ctx, "UpdateArticle called with no fields to update")
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, articleID)
	query := fmt.Sprintf("UPDATE articles SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", articleID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "article updated")
	return nil
}

func (r *PostgresArticleRepo) DeleteArticle(ctx context.Context, articleID uuid.UUID) error {
	ctx, span := otel.Tracer("ArticleRepo").Start(ctx, "DeleteArticle", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "articles"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM articles WHERE id = $1", articleID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", articleID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "article deleted")
	return nil
}
