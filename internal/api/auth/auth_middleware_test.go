package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-article-cms/internal/types"
)

func signTestToken(t *testing.T, secret string, mutate func(*types.Claims)) string {
	t.Helper()
	now := time.Now()
	claims := types.Claims{
		UserID: uuid.NewString(),
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "test-issuer",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	if mutate != nil {
		mutate(&claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticateMiddleware(t *testing.T) {
	cfg := testJWTConfig()
	middleware := Authenticate(slog.Default(), cfg)

	var gotUserID, gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		gotEmail, _ = GetUserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware(next)

	doRequest := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("ValidTokenSetsIdentity", func(t *testing.T) {
		userID := uuid.NewString()
		token := signTestToken(t, cfg.SecretKey, func(c *types.Claims) {
			c.UserID = userID
			c.Subject = userID
			c.Email = "caller@example.com"
		})

		rr := doRequest("Bearer " + token)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, "caller@example.com", gotEmail)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		rr := doRequest("")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Authorization header required")
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		rr := doRequest("Token abc")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Bearer")
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token := signTestToken(t, cfg.SecretKey, func(c *types.Claims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		})

		rr := doRequest("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Token has expired")
	})

	t.Run("WrongSignature", func(t *testing.T) {
		token := signTestToken(t, "some-other-secret", nil)

		rr := doRequest("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		token := signTestToken(t, cfg.SecretKey, func(c *types.Claims) {
			c.Issuer = "someone-else"
		})

		rr := doRequest("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid token issuer")
	})
}
