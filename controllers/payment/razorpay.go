package paymentControllers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/client"
	"github.com/Prannav-7/electrostore-client-sub000/config"
	orderControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/order"
	"github.com/Prannav-7/electrostore-client-sub000/middleware"
	"github.com/Prannav-7/electrostore-client-sub000/models"
)

const razorpayAPIBase = "https://api.razorpay.com"

// gatewayClient goes through the shared retrying client so a flaky gateway
// connection gets the same bounded-retry treatment as everything else.
var gatewayClient = client.New(razorpayAPIBase, nil)

type CreateRazorpayOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Error    *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// POST /api/payment/razorpay/order
// Without gateway keys the server runs in demo mode: it fabricates an order
// id and flags the response so the client skips the real checkout widget.
func CreateRazorpayOrderHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, _ := c.Get("user_id")
		userID, _ := userIDVal.(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var req CreateRazorpayOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "amount must be greater than 0"})
			return
		}

		receipt := "rzp_" + uuid.NewString()
		amountPaise := int64(math.Round(req.Amount * 100))

		var gatewayOrderID string
		demo := cfg.PaymentDemoMode()
		if demo {
			gatewayOrderID = "order_demo_" + uuid.NewString()[:8]
		} else {
			id, err := createGatewayOrder(c.Request.Context(), cfg, amountPaise, receipt)
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": err.Error()})
				return
			}
			gatewayOrderID = id
		}

		paymentOrder := models.PaymentOrder{
			Receipt:        receipt,
			UserID:         userID,
			Method:         models.PaymentMethodRazorpay,
			Amount:         req.Amount,
			Currency:       "INR",
			GatewayOrderID: gatewayOrderID,
			Demo:           demo,
			Status:         models.PaymentStatusPending,
			CreatedAt:      time.Now(),
		}
		if err := db.Create(&paymentOrder).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create payment order"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
			"order_id": gatewayOrderID,
			"amount":   amountPaise,
			"currency": "INR",
			"key_id":   cfg.RazorpayKeyID,
			"receipt":  receipt,
			"demo":     demo,
		}})
	}
}

// createGatewayOrder calls the Razorpay Orders API with basic auth and two
// retries for transient failures.
func createGatewayOrder(ctx context.Context, cfg *config.Config, amountPaise int64, receipt string) (string, error) {
	basicAuth := base64.StdEncoding.EncodeToString([]byte(cfg.RazorpayKeyID + ":" + cfg.RazorpayKeySecret))
	header := http.Header{}
	header.Set("Authorization", "Basic "+basicAuth)

	body := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	}

	resp, err := gatewayClient.Do(ctx, http.MethodPost, "/v1/orders", body, &client.RequestOptions{
		Retry:  2,
		Header: header,
	})
	if err != nil {
		return "", fmt.Errorf("failed to reach Razorpay: %w", err)
	}

	var gatewayResp razorpayOrderResponse
	if err := json.Unmarshal(resp.Body, &gatewayResp); err != nil {
		return "", fmt.Errorf("failed to parse Razorpay response: %v", err)
	}
	if gatewayResp.Error != nil {
		return "", fmt.Errorf("razorpay error: %s", gatewayResp.Error.Description)
	}
	if resp.StatusCode != http.StatusOK || gatewayResp.ID == "" {
		return "", fmt.Errorf("razorpay API error (%d)", resp.StatusCode)
	}
	return gatewayResp.ID, nil
}

// POST /api/payment/razorpay/verify
// Checks HMAC-SHA256("<order_id>|<payment_id>") against the checkout
// signature, then creates the paid order. Demo-flagged payment orders skip
// the signature check since no real secret signed them.
func VerifyRazorpayHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, payload, ok := bindVerifyPayload(c)
		if !ok {
			return
		}
		if payload.GatewayOrderID == "" || payload.PaymentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "razorpay_order_id and razorpay_payment_id are required"})
			return
		}

		var paymentOrder models.PaymentOrder
		if err := db.Where("gateway_order_id = ? AND user_id = ?", payload.GatewayOrderID, userID).First(&paymentOrder).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown gateway order"})
			return
		}

		if !paymentOrder.Demo {
			signed := payload.GatewayOrderID + "|" + payload.PaymentID
			if !middleware.VerifyRazorpaySignature(signed, payload.Signature, cfg.RazorpayKeySecret) {
				db.Model(&paymentOrder).Update("status", models.PaymentStatusFailed)
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payment signature"})
				return
			}
		}

		req := placeOrderRequest(c, userID, payload, models.PaymentMethodRazorpay, models.PaymentStatusPaid, payload.PaymentID)
		order, err := orderControllers.PlaceOrder(db, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		db.Model(&paymentOrder).Update("status", models.PaymentStatusPaid)
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
	}
}

// POST /api/payment/razorpay/webhook
// Signature is checked by middleware. Marks the payment order from the
// event; order creation stays on the checkout verify path.
func RazorpayWebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event struct {
			Event   string `json:"event"`
			Payload struct {
				Payment struct {
					Entity struct {
						ID      string `json:"id"`
						OrderID string `json:"order_id"`
						Status  string `json:"status"`
					} `json:"entity"`
				} `json:"payment"`
			} `json:"payload"`
		}
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to parse webhook body"})
			return
		}

		entity := event.Payload.Payment.Entity
		if entity.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing order_id"})
			return
		}

		status := models.PaymentStatusFailed
		if entity.Status == "captured" || entity.Status == "authorized" {
			status = models.PaymentStatusPaid
		}

		if err := db.Model(&models.PaymentOrder{}).
			Where("gateway_order_id = ?", entity.OrderID).
			Update("status", status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to record webhook"})
			return
		}
		log.Printf("✅ Razorpay webhook %s for %s → %s", event.Event, entity.OrderID, status)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "webhook processed"})
	}
}
