// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/interfaces/http/handlers"
	"github.com/your-org/farmmarket-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group under the given router group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, cfg)
	SetupFarmRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupCategoryRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, redisClient, cfg)
	SetupOrderRoutes(rg, db, redisClient, cfg)
	SetupReviewRoutes(rg, db, cfg)
	SetupMediaRoutes(rg, db, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/me", authHandler.Me)
			protected.POST("/become-farmer", authHandler.BecomeFarmer)
		}
	}
}

// SetupFarmRoutes sets up farm related routes
func SetupFarmRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	farmHandler := handlers.NewFarmHandler(db, cfg)

	farms := rg.Group("/farms")
	{
		farms.GET("", farmHandler.ListFarms)
		farms.GET("/:id", farmHandler.GetFarm)

		protected := farms.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("", farmHandler.CreateFarm)
			protected.PATCH("/:id", farmHandler.UpdateFarm)
			protected.DELETE("/:id", farmHandler.DeleteFarm)
			protected.POST("/:id/members", farmHandler.AddMember)
		}
	}
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/reviews", reviewHandler.ListProductReviews)

		protected := products.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("", productHandler.CreateProduct)
			protected.PATCH("/:id", productHandler.UpdateProduct)
			protected.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// SetupCategoryRoutes sets up product category routes
func SetupCategoryRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	categoryHandler := handlers.NewCategoryHandler(db, cfg)

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/roots", categoryHandler.ListRootCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.GET("/:id/children", categoryHandler.GetCategoryChildren)
		categories.GET("/:id/products", categoryHandler.GetCategoryProducts)

		admin := categories.Group("")
		admin.Use(middleware.AuthMiddleware(cfg))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", categoryHandler.CreateCategory)
			admin.PATCH("/:id", categoryHandler.UpdateCategory)
			admin.PUT("/:id/parent/:parentId", categoryHandler.SetCategoryParent)
			admin.DELETE("/:id/parent", categoryHandler.RemoveCategoryParent)
			admin.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}
}

// SetupCartRoutes sets up cart routes, including checkout
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)

		// Checkout: converts the cart into one order per farm.
		cart.POST("/validate", orderHandler.ValidateCart)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/status", orderHandler.UpdateStatus)
	}
}

// SetupReviewRoutes sets up review related routes
func SetupReviewRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	reviews := rg.Group("/reviews")
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.GET("/:id", reviewHandler.GetReview)

		protected := reviews.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("", reviewHandler.CreateReview)
			protected.PATCH("/:id", reviewHandler.UpdateReview)
			protected.DELETE("/:id", reviewHandler.DeleteReview)
		}
	}
}

// SetupMediaRoutes sets up media upload routes
func SetupMediaRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	mediaHandler := handlers.NewMediaHandler(db, cfg)

	media := rg.Group("/media")
	{
		media.GET("", mediaHandler.ListForEntity)
		media.GET("/:id", mediaHandler.GetMedia)

		protected := media.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("", mediaHandler.Upload)
			protected.DELETE("/:id", mediaHandler.Delete)
		}
	}
}
