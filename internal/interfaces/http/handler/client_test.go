package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	directoryapp "github.com/invoicely/backend/internal/application/directory"
	"github.com/invoicely/backend/internal/domain/directory"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Client, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]directory.Client, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.Client), args.Error(1)
}

func (m *MockClientRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockClientRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// authAs injects JWT context values the way the auth middleware would
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func setupClientRouter(repo *MockClientRepository, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewClientHandler(directoryapp.NewClientService(repo))

	r := gin.New()
	group := r.Group("/api/v1/clients", authAs(userID))
	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/:id", handler.GetByID)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	return r
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestClientHandler_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates a client and returns 201", func(t *testing.T) {
		repo := new(MockClientRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*directory.Client")).Return(nil)
		r := setupClientRouter(repo, ownerID)

		payload := `{"name":"Acme Corp","email":"billing@acme.test"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeResponse(t, w)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "Acme Corp", data["name"])
		repo.AssertExpectations(t)
	})

	t.Run("rejects a payload without a name", func(t *testing.T) {
		repo := new(MockClientRepository)
		r := setupClientRouter(repo, ownerID)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewBufferString(`{"email":"x@y.test"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestClientHandler_GetByID(t *testing.T) {
	ownerID := uuid.New()

	t.Run("returns 404 for another user's client", func(t *testing.T) {
		repo := new(MockClientRepository)
		missingID := uuid.New()
		repo.On("FindByIDForOwner", mock.Anything, ownerID, missingID).Return(nil, shared.ErrNotFound)
		r := setupClientRouter(repo, ownerID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+missingID.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := decodeResponse(t, w)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "NOT_FOUND", errInfo["code"])
	})

	t.Run("rejects a malformed ID", func(t *testing.T) {
		repo := new(MockClientRepository)
		r := setupClientRouter(repo, ownerID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/not-a-uuid", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestClientHandler_List(t *testing.T) {
	ownerID := uuid.New()

	repo := new(MockClientRepository)
	client, err := directory.NewClient(ownerID, "Acme Corp", "billing@acme.test", "", "", "")
	require.NoError(t, err)

	repo.On("FindAllForOwner", mock.Anything, ownerID, mock.AnythingOfType("shared.Filter")).
		Return([]directory.Client{*client}, nil)
	repo.On("CountForOwner", mock.Anything, ownerID, mock.AnythingOfType("shared.Filter")).
		Return(int64(1), nil)
	r := setupClientRouter(repo, ownerID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, float64(10), meta["page_size"])
	data := body["data"].([]any)
	assert.Len(t, data, 1)
}

func TestClientHandler_Delete(t *testing.T) {
	ownerID := uuid.New()
	clientID := uuid.New()

	repo := new(MockClientRepository)
	repo.On("DeleteForOwner", mock.Anything, ownerID, clientID).Return(nil)
	r := setupClientRouter(repo, ownerID)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/clients/"+clientID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestClientHandler_RequiresAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockClientRepository)
	handler := NewClientHandler(directoryapp.NewClientService(repo))

	r := gin.New()
	r.GET("/api/v1/clients", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
