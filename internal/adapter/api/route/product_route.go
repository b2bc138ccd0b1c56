package route

import (
	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/api/controller"
	"github.com/dmtavares/pdv-varejo/pkg/middleware"
)

// RegisterProductRoutes registra as rotas do módulo de produtos
func RegisterProductRoutes(r *gin.RouterGroup, productController *controller.ProductController) {
	products := r.Group("/products")
	products.Use(middleware.AuthMiddleware())
	{
		products.POST("", productController.Create)
		products.GET("", productController.List)
		products.GET("/below-min-stock", productController.ListBelowMinStock)
		products.GET("/barcode/:barcode", productController.FindByBarcode)
		products.GET("/code/:code", productController.FindByCode)
		products.GET("/:id", productController.FindByID)
		products.PUT("/:id", productController.Update)
		products.DELETE("/:id", productController.Delete)
		products.POST("/:id/stock", productController.AddStockMovement)
		products.GET("/:id/stock", productController.ListStockMovements)
	}
}
