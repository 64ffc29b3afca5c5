package user

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-article-cms/internal/types"
)

// MockUserServiceForHandler is a mock implementation of UserService for
// handler tests.
type MockUserServiceForHandler struct {
	mock.Mock
}

func (m *MockUserServiceForHandler) Create(ctx context.Context, email, username, password string) (*types.User, error) {
	args := m.Called(ctx, email, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserServiceForHandler) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserServiceForHandler) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserServiceForHandler) FindByUsername(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserServiceForHandler) ListAll(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetUsersHandler(t *testing.T) {
	mockService := new(MockUserServiceForHandler)
	handler := NewHandlerImpl(mockService, slog.Default())

	users := []types.User{
		{ID: uuid.New(), Email: "a@x.com", Username: "alice"},
		{ID: uuid.New(), Email: "b@x.com", Username: "bob"},
	}
	mockService.On("ListAll", mock.Anything).Return(users, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rr := httptest.NewRecorder()
	handler.GetUsers(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []types.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	mockService.AssertExpectations(t)
}

func TestGetUserHandler(t *testing.T) {
	mockService := new(MockUserServiceForHandler)
	handler := NewHandlerImpl(mockService, slog.Default())

	t.Run("Success", func(t *testing.T) {
		u := &types.User{ID: uuid.New(), Email: "a@x.com", Username: "alice"}
		mockService.On("GetByID", mock.Anything, u.ID).Return(u, nil).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+u.ID.String(), nil), "id", u.ID.String())
		rr := httptest.NewRecorder()
		handler.GetUser(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got types.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, u.ID, got.ID)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		id := uuid.New()
		mockService.On("GetByID", mock.Anything, id).Return(nil, types.ErrNotFound).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id.String(), nil), "id", id.String())
		rr := httptest.NewRecorder()
		handler.GetUser(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockUserServiceForHandler)
		handler := NewHandlerImpl(mockService, slog.Default())

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-uuid", nil), "id", "not-a-uuid")
		rr := httptest.NewRecorder()
		handler.GetUser(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestCreateUserHandler(t *testing.T) {
	mockService := new(MockUserServiceForHandler)
	handler := NewHandlerImpl(mockService, slog.Default())

	doRequest := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		handler.CreateUser(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		created := &types.User{ID: uuid.New(), Email: "a@x.com", Username: "alice"}
		mockService.On("Create", mock.Anything, "a@x.com", "alice", "secret1").Return(created, nil).Once()

		rr := doRequest(`{"email":"a@x.com","username":"alice","password":"secret1"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockService.On("Create", mock.Anything, "a@x.com", "alice", "secret1").
			Return(nil, types.ErrConflict).Once()

		rr := doRequest(`{"email":"a@x.com","username":"alice","password":"secret1"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		rr := doRequest(`{"email":"a@x.com","username":"alice","password":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "at least 6 characters")
	})
}
