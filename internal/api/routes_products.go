package api

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalogd/internal/handlers"
	"github.com/shopstack/catalogd/internal/services"
)

func registerProductRoutes(r *gin.Engine, catalog *services.CatalogService) error {
	handler, err := handlers.NewProductHandler(catalog)
	if err != nil {
		return err
	}

	products := r.Group("/api/products")
	{
		products.POST("", handler.Create)
		products.GET("", handler.List)
		products.GET("/:id", handler.Get)
		products.PUT("/:id", handler.Update)
		products.DELETE("/:id", handler.Delete)
	}
	return nil
}
