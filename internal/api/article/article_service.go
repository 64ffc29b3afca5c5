package article

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-article-cms/app/cache"
	"github.com/FACorreiaa/go-article-cms/app/observability/metrics"
	"github.com/FACorreiaa/go-article-cms/internal/types"
)

var _ ArticleService = (*ArticleServiceImpl)(nil)

// ArticleService defines the business logic contract for article operations.
// Every successful mutation resets the injected response cache: a coarse
// invalidation, since any article change may affect any cached listing.
type ArticleService interface {
	Create(ctx context.Context, params types.CreateArticleParams, authorID uuid.UUID) (*types.Article, error)
	FindAll(ctx context.Context, filter types.ArticleFilter) (*types.ArticleList, error)
	FindOne(ctx context.Context, articleID uuid.UUID) (*types.Article, error)

	// Update applies a partial update. A caller who is not the author gets
	// types.ErrNotFound, indistinguishable from a missing article.
	Update(ctx context.Context, articleID uuid.UUID, params types.UpdateArticleParams, authorID uuid.UUID) (*types.Article, error)

	// Delete removes the article under the same existence+ownership check.
	Delete(ctx context.Context, articleID uuid.UUID, authorID uuid.UUID) error
}

// ArticleServiceImpl provides the implementation for ArticleService.
type ArticleServiceImpl struct {
	logger *slog.Logger
	repo   ArticleRepo
	cache  cache.Store
}

// NewArticleService creates a new ArticleService.
func NewArticleService(repo ArticleRepo, responseCache cache.Store, logger *slog.Logger) *ArticleServiceImpl {
	return &ArticleServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  responseCache,
	}
}

func (s *ArticleServiceImpl) invalidateCache(ctx context.Context, operation string) {
	s.cache.Reset()
	metrics.Get().CacheInvalidationsTotal.Add(ctx, 1)
	metrics.Get().ArticleMutationsTotal.Add(ctx, 1)
	s.logger.DebugContext(ctx, "Response cache invalidated", slog.String("operation", operation))
}

func (s *ArticleServiceImpl) Create(ctx context.Context, params types.CreateArticleParams, authorID uuid.UUID) (*types.Article, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("author_id", authorID.String()))

	article, err := s.repo.CreateArticle(ctx, params, authorID)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, "create")
	l.InfoContext(ctx, "Article created", slog.String("article_id", article.ID.String()))
	return article, nil
}

func (s *ArticleServiceImpl) FindAll(ctx context.Context, filter types.ArticleFilter) (*types.ArticleList, error) {
	return s.repo.ListArticles(ctx, filter)
}

func (s *ArticleServiceImpl) FindOne(ctx context.Context, articleID uuid.UUID) (*types.Article, error) {
	return s.repo.GetArticleByID(ctx, articleID)
}

func (s *ArticleServiceImpl) Update(ctx context.Context, articleID uuid.UUID, params types.UpdateArticleParams, authorID uuid.UUID) (*types.Article, error) {
	l := s.logger.With(slog.String("method", "Update"), slog.String("article_id", articleID.String()))

	article, err := s.repo.GetArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	// Non-owners get the same "not found" as a missing article so the
	// existence of other users' articles never leaks.
	if article.AuthorID != authorID {
		l.WarnContext(ctx, "Update denied for non-owner", slog.String("caller_id", authorID.String()))
		return nil, fmt.Errorf("article %s: %w", articleID, types.ErrNotFound)
	}

	if err := s.repo.UpdateArticle(ctx, articleID, params); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, "update")
	l.InfoContext(ctx, "Article updated")
	return updated, nil
}

func (s *ArticleServiceImpl) Delete(ctx context.Context, articleID uuid.UUID, authorID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "Delete"), slog.String("article_id", articleID.String()))

	article, err := s.repo.GetArticleByID(ctx, articleID)
	if err != nil {
		return err
	}
	if article.AuthorID != authorID {
		l.WarnContext(ctx, "Delete denied for non-owner", slog.String("caller_id", authorID.String()))
		return fmt.Errorf("article %s: %w", articleID, types.ErrNotFound)
	}

	if err := s.repo.DeleteArticle(ctx, articleID); err != nil {
		return err
	}

	s.invalidateCache(ctx, "delete")
	l.InfoContext(ctx, "Article deleted")
	return nil
}
