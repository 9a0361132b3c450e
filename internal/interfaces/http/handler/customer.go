package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/syncbridge/backend/internal/application/catalog"
	"github.com/syncbridge/backend/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *catalogapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *catalogapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	var query catalogapp.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PATCH /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req catalogapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
