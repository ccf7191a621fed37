package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/config"
	paymentControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/payment"
	"github.com/Prannav-7/electrostore-client-sub000/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	payment := r.Group("/api/payment")
	payment.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		payment.POST("/verify-cod", paymentControllers.VerifyCODHandler(db))

		payment.POST("/upi/order", paymentControllers.CreateUPIOrderHandler(db, cfg))
		payment.POST("/verify-upi", paymentControllers.VerifyUPIHandler(db))

		payment.POST("/razorpay/order", paymentControllers.CreateRazorpayOrderHandler(db, cfg))
		payment.POST("/razorpay/verify", paymentControllers.VerifyRazorpayHandler(db, cfg))
	}

	// Webhook endpoint: middleware handles signature verification, demo
	// mode skips it.
	r.POST("/api/payment/razorpay/webhook",
		middleware.RazorpayWebhookAuth(cfg.RazorpayKeySecret),
		paymentControllers.RazorpayWebhookHandler(db),
	)
}
