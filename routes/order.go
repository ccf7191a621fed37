package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/config"
	orderControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/order"
	"github.com/Prannav-7/electrostore-client-sub000/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	orders := r.Group("/api/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// Direct order placement (admin tooling / COD re-submission)
		orders.POST("/place", orderControllers.PlaceOrderHandler(db))

		// Orders of the authenticated user
		orders.GET("/my", orderControllers.GetUserOrdersHandler(db))

		// Single order by id or order number
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
	}
}
