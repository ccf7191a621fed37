package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/config"
	adminController "github.com/Prannav-7/electrostore-client-sub000/controllers/admin"
	cartControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/cart"
	orderControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/order"
	productcontroller "github.com/Prannav-7/electrostore-client-sub000/controllers/product"
	userControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/user"
	"github.com/Prannav-7/electrostore-client-sub000/middleware"
)

// SetupAdminRoutes registers all /api/admin/* endpoints. Requires a valid
// JWT carrying the admin claim.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireAdmin())
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db, cfg.UploadsDir))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))
			orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))
		}

		// Live feed of newly placed orders for the dashboard
		adminGroup.GET("/ws/orders", orderControllers.OrderWebSocketHandler)

		// ─────────── Sales Analytics & Reports ───────────
		analytics := adminGroup.Group("/analytics")
		{
			analytics.GET("/summary", adminController.SalesSummaryHandler(db))
			analytics.GET("/monthly", adminController.MonthlySalesHandler(db))
			analytics.GET("/top-products", adminController.TopProductsHandler(db))
		}
		adminGroup.GET("/reports/monthly", adminController.MonthlySalesReportHandler(db))

		// ─────────── Banner Management ───────────
		bannerMgmt := adminGroup.Group("/banner")
		{
			bannerMgmt.POST("/upload", adminController.UploadBanner(db, cfg.UploadsDir))
			bannerMgmt.DELETE("/:id", adminController.DeleteBanner(db, cfg.UploadsDir))
		}
	}
}
