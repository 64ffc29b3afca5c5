package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-article-cms/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for user operations.
type UserService interface {
	// Create registers a new user. Email uniqueness is checked before
	// username; each collision returns types.ErrConflict. The password is
	// bcrypt-hashed before persistence.
	Create(ctx context.Context, email, username, password string) (*types.User, error)

	// GetByID returns the user or types.ErrNotFound.
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)

	// FindByEmail returns (nil, nil) when no user has that email.
	FindByEmail(ctx context.Context, email string) (*types.User, error)

	// FindByUsername returns (nil, nil) when no user has that username.
	FindByUsername(ctx context.Context, username string) (*types.User, error)

	// ListAll returns every user, unpaginated.
	ListAll(ctx context.Context) ([]types.User, error)
}

// UserServiceImpl provides the implementation for UserService.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *UserServiceImpl) Create(ctx context.Context, email, username, password string) (*types.User, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("email", email))

	// Email first, then username; the order is observable through which
	// conflict message the caller receives.
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		l.WarnContext(ctx, "Email already registered")
		return nil, fmt.Errorf("email already exists: %w", types.ErrConflict)
	}

	existing, err = s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		l.WarnContext(ctx, "Username already taken", slog.String("username", username))
		return nil, fmt.Errorf("username already exists: %w", types.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, username, string(hashedPassword))
	if err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "User created", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *UserServiceImpl) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *UserServiceImpl) FindByUsername(ctx context.Context, username string) (*types.User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

func (s *UserServiceImpl) ListAll(ctx context.Context) ([]types.User, error) {
	return s.repo.ListUsers(ctx)
}
