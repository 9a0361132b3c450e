package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syncbridge/backend/internal/domain/integration"
	"github.com/syncbridge/backend/internal/interfaces/http/dto"
)

// SyncService is the reconciliation surface exposed over HTTP
type SyncService interface {
	SyncAll(ctx context.Context) (*integration.FullSyncReport, error)
	SyncEntity(ctx context.Context, entity integration.EntityType) (*integration.SyncReport, error)
}

// SyncHandler handles manual sync trigger endpoints
type SyncHandler struct {
	BaseHandler
	syncService SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// SyncAll handles POST /sync. It runs a full reconciliation pass
// synchronously and returns the aggregated report. Partial failures are
// part of the report, not an error status.
func (h *SyncHandler) SyncAll(c *gin.Context) {
	report, err := h.syncService.SyncAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSyncResponse(
		"Synchronization completed",
		report,
		time.Now().Format(time.RFC3339),
	))
}

// SyncEntity handles POST /sync/:entity for products, customers or orders
func (h *SyncHandler) SyncEntity(c *gin.Context) {
	entity := integration.EntityType(c.Param("entity"))
	if !entity.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest,
			"Unknown sync entity, expected products, customers or orders")
		return
	}

	report, err := h.syncService.SyncEntity(c.Request.Context(), entity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSyncResponse(
		"Synchronization of "+entity.String()+" completed",
		report,
		time.Now().Format(time.RFC3339),
	))
}
