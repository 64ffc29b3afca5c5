package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-article-cms/internal/api/article"
	"github.com/FACorreiaa/go-article-cms/internal/api/auth"
	"github.com/FACorreiaa/go-article-cms/internal/api/user"
)

// Config contains the dependencies needed for route wiring.
type Config struct {
	AuthHandler    *auth.HandlerImpl
	UserHandler    *user.HandlerImpl
	ArticleHandler *article.HandlerImpl

	// AuthenticateMiddleware guards the protected route group.
	AuthenticateMiddleware func(http.Handler) http.Handler
	// CacheMiddleware serves the read-only article endpoints from the
	// response cache.
	CacheMiddleware func(http.Handler) http.Handler
}

// SetupRouter wires the application routes. Server-wide middleware
// (request ID, logging, recoverer) is applied before mounting this router
// in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/users", cfg.UserHandler.CreateUser)

			// Read-only article endpoints are unauthenticated and cached.
			r.Group(func(r chi.Router) {
				r.Use(cfg.CacheMiddleware)
				r.Get("/articles", cfg.ArticleHandler.GetArticles)
				r.Get("/articles/{id}", cfg.ArticleHandler.GetArticle)
			})
		})

		// Protected routes require a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/auth/profile", cfg.AuthHandler.GetProfile)

			r.Get("/users", cfg.UserHandler.GetUsers)
			r.Get("/users/{id}", cfg.UserHandler.GetUser)

			r.Post("/articles", cfg.ArticleHandler.CreateArticle)
			r.Put("/articles/{id}", cfg.ArticleHandler.UpdateArticle)
			r.Delete("/articles/{id}", cfg.ArticleHandler.DeleteArticle)
		})
	})

	return r
}
