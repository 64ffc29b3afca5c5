package container

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-article-cms/app/cache"
	"github.com/FACorreiaa/go-article-cms/config"
	"github.com/FACorreiaa/go-article-cms/internal/api/article"
	"github.com/FACorreiaa/go-article-cms/internal/api/auth"
	"github.com/FACorreiaa/go-article-cms/internal/api/user"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Cache  cache.Store

	AuthHandler    *auth.HandlerImpl
	UserHandler    *user.HandlerImpl
	ArticleHandler *article.HandlerImpl
}

// NewContainer builds the dependency graph on top of an initialized pool.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) *Container {
	responseCache := cache.NewInMemoryStore(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	authService := auth.NewAuthService(userService, cfg.JWT, logger)
	authHandler := auth.NewHandlerImpl(authService, logger)

	articleRepo := article.NewPostgresArticleRepo(pool, logger)
	articleService := article.NewArticleService(articleRepo, responseCache, logger)
	articleHandler := article.NewHandlerImpl(articleService, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Pool:           pool,
		Cache:          responseCache,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		ArticleHandler: articleHandler,
	}
}
