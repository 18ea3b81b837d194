package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the public API under /api. Catalog reads are open;
// account, basket, review mutation and upload routes sit behind the
// access-token gate.
func SetupRoutes(r *gin.Engine, sessions Sessions, catalog Catalog, reviews Reviews, files Files, refreshTTLSeconds int) {
	authHandler := NewAuthHandler(sessions, refreshTTLSeconds)
	catalogHandler := NewCatalogHandler(catalog)
	reviewHandler := NewReviewHandler(reviews)
	fileHandler := NewFileHandler(files)

	gate := AuthMiddleware(sessions)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", gate, authHandler.Me)
			auth.PUT("/me", gate, authHandler.UpdateProfile)
		}

		basket := api.Group("/basket", gate)
		{
			basket.POST("/:productId", authHandler.AddToBasket)
			basket.DELETE("/:productId", authHandler.RemoveFromBasket)
		}

		favorites := api.Group("/favorites", gate)
		{
			favorites.POST("/:productId", authHandler.AddToFavorites)
			favorites.DELETE("/:productId", authHandler.RemoveFromFavorites)
		}

		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/categories", catalogHandler.Categories)
			catalogGroup.POST("/categories", gate, catalogHandler.CreateCategory)
			catalogGroup.GET("/hits", catalogHandler.Hits)
			catalogGroup.GET("/discounts", catalogHandler.Discounts)
			catalogGroup.GET("/products/search", catalogHandler.Search)
			catalogGroup.GET("/products/:id", catalogHandler.Product)
			catalogGroup.POST("/products/by-ids", catalogHandler.ProductsByIDs)
			catalogGroup.GET("/:subcategory", catalogHandler.Products)
			catalogGroup.POST("/products", gate, catalogHandler.CreateProduct)
			catalogGroup.PUT("/products/:id", gate, catalogHandler.UpdateProduct)
			catalogGroup.DELETE("/products/:id", gate, catalogHandler.DeleteProduct)
		}

		reviewsGroup := api.Group("/reviews")
		{
			reviewsGroup.GET("/:productId", reviewHandler.ListByProduct)
			reviewsGroup.GET("/:productId/score", reviewHandler.ProductScore)
			reviewsGroup.POST("/:productId", gate, reviewHandler.Create)
			reviewsGroup.PUT("/id/:id", gate, reviewHandler.Update)
			reviewsGroup.DELETE("/id/:id", gate, reviewHandler.Delete)
		}

		filesGroup := api.Group("/files", gate)
		{
			filesGroup.POST("/upload", fileHandler.Upload)
			filesGroup.GET("/download", fileHandler.Download)
		}
	}
}
