package user

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-article-cms/internal/api"
	"github.com/FACorreiaa/go-article-cms/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// CreateUserRequest represents the expected JSON body for user creation.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the request fields against the registration rules.
func (req *CreateUserRequest) Validate() error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("a valid email is required: %w", types.ErrValidation)
	}
	if req.Username == "" {
		return fmt.Errorf("username is required: %w", types.ErrValidation)
	}
	if len(req.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", types.ErrValidation)
	}
	return nil
}

// GetUsers godoc
// @Summary      List Users
// @Description  Returns every registered user.
// @Tags         User
// @Produce      json
// @Success      200 {array} types.User
// @Security     BearerAuth
// @Router       /users [get]
func (h *HandlerImpl) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetUsers"))

	users, err := h.userService.ListAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list users")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// GetUser godoc
// @Summary      Get User by ID
// @Tags         User
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} types.User
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *HandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetUser"))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// CreateUser godoc
// @Summary      Create User
// @Description  Creates a new user account. Equivalent to registration.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        user body CreateUserRequest true "User"
// @Success      201 {object} types.User
// @Failure      409 {object} map[string]interface{}
// @Router       /users [post]
func (h *HandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateUser"))

	var req CreateUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.Create(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "Email or username already exists")
			return
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}
