package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/syncbridge/backend/internal/application/catalog"
	"github.com/syncbridge/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *catalogapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *catalogapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req catalogapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var query catalogapp.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.orderService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PATCH /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req catalogapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req catalogapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
