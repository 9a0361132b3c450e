package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/syncbridge/backend/internal/domain/integration"
	"github.com/syncbridge/backend/internal/interfaces/http/dto"
)

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) SyncAll(ctx context.Context) (*integration.FullSyncReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.FullSyncReport), args.Error(1)
}

func (m *MockSyncService) SyncEntity(ctx context.Context, entity integration.EntityType) (*integration.SyncReport, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SyncReport), args.Error(1)
}

func newSyncRouter(svc SyncService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSyncHandler(svc).RegisterRoutes(api)
	return engine
}

func TestSyncHandler_SyncAll(t *testing.T) {
	t.Run("returns the full report", func(t *testing.T) {
		svc := new(MockSyncService)
		now := time.Now()
		svc.On("SyncAll", mock.Anything).Return(&integration.FullSyncReport{
			Reports: []integration.SyncReport{
				{Entity: integration.EntityTypeProducts, Status: integration.SyncStatusCompleted, Total: 3, Succeeded: 3},
			},
			StartedAt:   now,
			CompletedAt: now,
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		newSyncRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Synchronization completed", resp.Message)
		_, err := time.Parse(time.RFC3339, resp.Timestamp)
		assert.NoError(t, err)

		data := resp.Data.(map[string]interface{})
		reports := data["reports"].([]interface{})
		require.Len(t, reports, 1)
		first := reports[0].(map[string]interface{})
		assert.Equal(t, "products", first["entity"])
		assert.Equal(t, "completed", first["status"])
	})

	t.Run("sync in progress maps to 409", func(t *testing.T) {
		svc := new(MockSyncService)
		svc.On("SyncAll", mock.Anything).Return(nil, integration.ErrSyncInProgress)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		newSyncRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeSyncInProgress, resp.Error.Code)
	})

	t.Run("remote unavailable maps to 502", func(t *testing.T) {
		svc := new(MockSyncService)
		svc.On("SyncAll", mock.Anything).Return(nil, integration.ErrRemoteUnavailable)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		newSyncRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("storage failure maps to 503", func(t *testing.T) {
		svc := new(MockSyncService)
		svc.On("SyncAll", mock.Anything).Return(nil, integration.ErrSyncUnavailable)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		newSyncRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSyncHandler_SyncEntity(t *testing.T) {
	t.Run("runs a single entity pass", func(t *testing.T) {
		svc := new(MockSyncService)
		svc.On("SyncEntity", mock.Anything, integration.EntityTypeCustomers).Return(&integration.SyncReport{
			Entity:    integration.EntityTypeCustomers,
			Status:    integration.SyncStatusCompleted,
			Total:     2,
			Succeeded: 2,
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/customers", nil)
		newSyncRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Synchronization of customers completed", resp.Message)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "customers", data["entity"])
		svc.AssertExpectations(t)
	})

	t.Run("unknown entity is rejected before the service runs", func(t *testing.T) {
		svc := new(MockSyncService)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/warehouses", nil)
		newSyncRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "SyncEntity", mock.Anything, mock.Anything)
	})
}
