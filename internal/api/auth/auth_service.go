package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-article-cms/config"
	"github.com/FACorreiaa/go-article-cms/internal/api/user"
	"github.com/FACorreiaa/go-article-cms/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the authentication contract: credential verification,
// session token issuance and registration.
type AuthService interface {
	// ValidateCredentials returns the user (password hash stripped) when the
	// email/password pair matches. Unknown email and wrong password both
	// return types.ErrUnauthenticated with no observable difference.
	ValidateCredentials(ctx context.Context, email, password string) (*types.User, error)

	// IssueSession mints a signed token binding {sub=user.ID, email} with
	// the configured expiry.
	IssueSession(user *types.User) (*LoginResponse, error)

	// Register creates a new user via the user service.
	Register(ctx context.Context, req RegisterRequest) (*types.User, error)
}

// AuthServiceImpl implements AuthService on top of the user service.
type AuthServiceImpl struct {
	logger      *slog.Logger
	userService user.UserService
	jwtCfg      config.JWTConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(userService user.UserService, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:      logger,
		userService: userService,
		jwtCfg:      jwtCfg,
	}
}

func (s *AuthServiceImpl) ValidateCredentials(ctx context.Context, email, password string) (*types.User, error) {
	l := s.logger.With(slog.String("method", "ValidateCredentials"))

	u, err := s.userService.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("credential lookup failed: %w", err)
	}
	// Unknown email and bad password must be indistinguishable to the
	// caller, so both paths return the same error.
	if u == nil {
		l.DebugContext(ctx, "Login attempt for unknown email")
		return nil, fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		l.DebugContext(ctx, "Password mismatch", slog.String("user_id", u.ID.String()))
		return nil, fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	stripped := *u
	stripped.Password = ""
	return &stripped, nil
}

func (s *AuthServiceImpl) IssueSession(u *types.User) (*LoginResponse, error) {
	expiresIn := s.jwtCfg.ExpirySeconds
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	now := time.Now()
	claims := types.Claims{
		UserID: u.ID.String(),
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresIn) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &LoginResponse{
		AccessToken: signed,
		ExpiresIn:   expiresIn,
		User:        u.Summary(),
	}, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.User, error) {
	return s.userService.Create(ctx, req.Email, req.Username, req.Password)
}
