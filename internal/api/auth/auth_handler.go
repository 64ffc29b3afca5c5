package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-article-cms/app/observability/metrics"
	"github.com/FACorreiaa/go-article-cms/internal/api"
	"github.com/FACorreiaa/go-article-cms/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new auth HandlerImpl instance.
func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body RegisterRequest true "Registration"
// @Success      201 {object} types.User
// @Failure      409 {object} map[string]interface{} "Email or username taken"
// @Router       /auth/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.WarnContext(ctx, "Registration conflict", slog.String("email", req.Email))
			api.ErrorResponse(w, r, http.StatusConflict, "Email or username already exists")
			return
		}
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// Login godoc
// @Summary      Login with email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body LoginRequest true "Credentials"
// @Success      200 {object} LoginResponse
// @Failure      401 {object} map[string]interface{} "Invalid credentials"
// @Router       /auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		l.ErrorContext(ctx, "Credential validation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}

	session, err := h.authService.IssueSession(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}

	metrics.Get().LoginRequestsTotal.Add(ctx, 1)
	api.WriteJSONResponse(w, r, http.StatusOK, session)
}

// GetProfile godoc
// @Summary      Get current user profile
// @Description  Returns the identity carried by the verified bearer token.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /auth/profile [get]
func (h *HandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok || userID == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	email, _ := GetUserEmailFromContext(ctx)

	api.WriteJSONResponse(w, r, http.StatusOK, ProfileResponse{
		ID:    userID,
		Email: email,
	})
}
