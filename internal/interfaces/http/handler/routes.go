package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.PATCH("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.PATCH("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PATCH("/:id", h.Update)
		orders.PATCH("/:id/status", h.UpdateStatus)
		orders.DELETE("/:id", h.Delete)
	}
}

// RegisterRoutes registers manual sync trigger routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("", h.SyncAll)
		sync.POST("/:entity", h.SyncEntity)
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/health", h.Health)
		system.GET("/ping", h.Ping)
	}
}
