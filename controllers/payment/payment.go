package paymentControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/order"
	"github.com/Prannav-7/electrostore-client-sub000/models"
)

// VerifyPayload is the order body every verify endpoint accepts. The user is
// taken from the JWT, never from the payload.
type VerifyPayload struct {
	Items           []orderControllers.OrderItemInput `json:"items" binding:"required,dive"`
	CustomerDetails models.CustomerDetails            `json:"customerDetails"`
	OrderSummary    models.OrderSummary               `json:"orderSummary"`
	Receipt         string                            `json:"receipt"`
	GatewayOrderID  string                            `json:"razorpay_order_id"`
	PaymentID       string                            `json:"razorpay_payment_id"`
	Signature       string                            `json:"razorpay_signature"`
}

func bindVerifyPayload(c *gin.Context) (string, VerifyPayload, bool) {
	userIDVal, exists := c.Get("user_id")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return "", VerifyPayload{}, false
	}

	var payload VerifyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return "", VerifyPayload{}, false
	}
	return userID, payload, true
}

func placeOrderRequest(c *gin.Context, userID string, payload VerifyPayload, method models.PaymentMethod, paymentStatus models.PaymentStatus, paymentRef string) orderControllers.PlaceOrderRequest {
	return orderControllers.PlaceOrderRequest{
		UserID:          userID,
		Items:           payload.Items,
		CustomerDetails: payload.CustomerDetails,
		Summary:         payload.OrderSummary,
		PaymentMethod:   string(method),
		PaymentStatus:   string(paymentStatus),
		PaymentRef:      paymentRef,
		IdempotencyKey:  c.GetHeader("Idempotency-Key"),
	}
}
