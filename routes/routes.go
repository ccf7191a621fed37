package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/config"
)

// SetupRoutes is the single entry point that wires up all route groups
// under the /api base path.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, cfg)

	// Public storefront routes (catalog, banners, chatbot)
	SetupStorefrontRoutes(r, db, cfg)

	// User routes (JWT-protected): profile, cart, orders, payments
	SetupUserRoutes(r, db, cfg)
	SetupOrderRoutes(r, db, cfg)
	SetupPaymentRoutes(r, db, cfg)

	// Admin routes (JWT + admin claim)
	SetupAdminRoutes(r, db, cfg)

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
