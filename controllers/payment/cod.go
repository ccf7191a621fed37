package paymentControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/order"
	"github.com/Prannav-7/electrostore-client-sub000/models"
)

// POST /api/payment/verify-cod
// Cash on delivery has no third party: a valid payload immediately becomes a
// pending/pending order and the cart is cleared.
func VerifyCODHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, payload, ok := bindVerifyPayload(c)
		if !ok {
			return
		}

		req := placeOrderRequest(c, userID, payload, models.PaymentMethodCOD, models.PaymentStatusPending, "")
		order, err := orderControllers.PlaceOrder(db, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
	}
}
