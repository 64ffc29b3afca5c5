package article

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-article-cms/internal/api"
	"github.com/FACorreiaa/go-article-cms/internal/api/auth"
	"github.com/FACorreiaa/go-article-cms/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateArticle(w http.ResponseWriter, r *http.Request)
	GetArticles(w http.ResponseWriter, r *http.Request)
	GetArticle(w http.ResponseWriter, r *http.Request)
	UpdateArticle(w http.ResponseWriter, r *http.Request)
	DeleteArticle(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	articleService ArticleService
	logger         *slog.Logger
}

// NewHandlerImpl creates a new article HandlerImpl instance.
func NewHandlerImpl(articleService ArticleService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		articleService: articleService,
		logger:         logger,
	}
}

// callerID extracts the authenticated user's UUID from the request context.
func callerID(r *http.Request) (uuid.UUID, error) {
	userIDStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || userIDStr == "" {
		return uuid.Nil, errors.New("authentication required")
	}
	return uuid.Parse(userIDStr)
}

func parseTimeParam(values url.Values, name string) (*time.Time, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s, expected an ISO 8601 date", name)
}

// parseFilter builds the listing filter from query parameters, applying
// the page/limit defaults.
func parseFilter(values url.Values) (types.ArticleFilter, error) {
	filter := types.ArticleFilter{
		Title: values.Get("title"),
		Page:  1,
		Limit: 10,
	}

	if raw := values.Get("authorId"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid authorId, expected a UUID")
		}
		filter.AuthorID = &authorID
	}

	var err error
	if filter.PublishedFrom, err = parseTimeParam(values, "publishedFrom"); err != nil {
		return filter, err
	}
	if filter.PublishedTo, err = parseTimeParam(values, "publishedTo"); err != nil {
		return filter, err
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, errors.New("invalid page, expected a positive integer")
		}
		filter.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, errors.New("invalid limit, expected a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}

// CreateArticle godoc
// @Summary      Create a new article
// @Tags         Article
// @Accept       json
// @Produce      json
// @Param        body body types.CreateArticleParams true "Article"
// @Success      201 {object} types.Article
// @Failure      401 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /articles [post]
func (h *HandlerImpl) CreateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateArticle"))

	authorID, err := callerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.CreateArticleParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if params.Title == "" || params.Description == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "title and description are required")
		return
	}

	article, err := h.articleService.Create(ctx, params, authorID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create article", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create article")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, article)
}

// GetArticles godoc
// @Summary      List articles with filtering and pagination
// @Tags         Article
// @Produce      json
// @Param        title query string false "Substring title match"
// @Param        authorId query string false "Author UUID"
// @Param        publishedFrom query string false "ISO 8601 lower bound"
// @Param        publishedTo query string false "ISO 8601 upper bound"
// @Param        page query int false "1-based page (default 1)"
// @Param        limit query int false "Page size (default 10)"
// @Success      200 {object} types.ArticleList
// @Router       /articles [get]
func (h *HandlerImpl) GetArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetArticles"))

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.articleService.FindAll(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list articles", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list articles")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

// GetArticle godoc
// @Summary      Get an article by ID
// @Tags         Article
// @Produce      json
// @Param        id path string true "Article ID"
// @Success      200 {object} types.Article
// @Failure      404 {object} map[string]interface{}
// @Router       /articles/{id} [get]
func (h *HandlerImpl) GetArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetArticle"))

	articleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	article, err := h.articleService.FindOne(ctx, articleID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Article not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get article", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve article")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, article)
}

// UpdateArticle godoc
// @Summary      Update an article
// @Description  Only the author may update. Missing article and non-owner
// @Description  both answer 404.
// @Tags         Article
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID"
// @Param        body body types.UpdateArticleParams true "Fields to update"
// @Success      200 {object} types.Article
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /articles/{id} [put]
func (h *HandlerImpl) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateArticle"))

	authorID, err := callerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	articleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	var params types.UpdateArticleParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.Update(ctx, articleID, params, authorID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Article not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update article", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update article")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, article)
}

// DeleteArticle godoc
// @Summary      Delete an article
// @Tags         Article
// @Produce      json
// @Param        id path string true "Article ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /articles/{id} [delete]
func (h *HandlerImpl) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteArticle"))

	authorID, err := callerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	articleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	if err := h.articleService.Delete(ctx, articleID, authorID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Article not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete article", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete article")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Article deleted",
	})
}
