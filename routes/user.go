package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/config"
	adminController "github.com/Prannav-7/electrostore-client-sub000/controllers/admin"
	cartControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/cart"
	chatControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/chat"
	productcontroller "github.com/Prannav-7/electrostore-client-sub000/controllers/product"
	userControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/user"
	"github.com/Prannav-7/electrostore-client-sub000/middleware"
)

// SetupStorefrontRoutes registers the public catalog endpoints.
func SetupStorefrontRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	api := r.Group("/api")
	{
		api.GET("/products", productcontroller.GetProducts(db))
		api.GET("/products/featured", productcontroller.GetFeaturedProducts(db))
		api.GET("/products/:id", productcontroller.GetProductByID(db))
		api.GET("/categories", productcontroller.GetAllCategories(db))
		api.GET("/banners", adminController.GetBanners(db))

		// The chatbot is open to visitors, no token required.
		api.POST("/chat", chatControllers.ChatHandler(db, cfg))
	}
}

// SetupUserRoutes registers the JWT-protected /api/user and /api/cart
// endpoints.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	userGroup := r.Group("/api/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		userGroup.GET("", userControllers.GetUser(db))
		userGroup.PUT("", userControllers.UpdateUser(db))
	}

	cartGroup := r.Group("/api/cart")
	cartGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		cartGroup.GET("", cartControllers.GetUserCart(db))
		cartGroup.POST("", cartControllers.UpdateCartItem(db))
		cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
		cartGroup.DELETE("", cartControllers.ClearUserCart(db))
	}
}
