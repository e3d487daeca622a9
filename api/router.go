package api

import (
	"net/http"

	"retail_dashboard/internal/analytics"
	"retail_dashboard/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InitRoutes registers the shop, product, sale, expense, transfer and
// analytics endpoints on the given Gin engine.
func InitRoutes(e *gin.Engine, salesService *sales.Service, engine *analytics.Engine, logger *zap.Logger) {
	h := NewHandler(salesService, engine, logger)

	e.POST("/shops", h.handleCreateShop)
	e.GET("/shops", h.handleListShops)

	e.POST("/products", h.handleCreateProduct)
	e.GET("/products", h.handleListProducts)

	e.POST("/sales", h.handleCreateSale)
	e.GET("/sales", h.handleListSales)

	e.POST("/expenses", h.handleCreateExpense)
	e.GET("/expenses", h.handleListExpenses)
	e.PATCH("/expenses/:id/approve", h.handleApproveExpense)

	e.POST("/transfers", h.handleCreateTransfer)
	e.GET("/transfers", h.handleListTransfers)

	e.GET("/analytics", h.handleAnalytics)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
