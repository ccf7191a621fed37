package paymentControllers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/config"
	orderControllers "github.com/Prannav-7/electrostore-client-sub000/controllers/order"
	"github.com/Prannav-7/electrostore-client-sub000/models"
)

type CreateUPIOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// POST /api/payment/upi/order
// Prepares a UPI payment order: deep-link URI for mobile plus a QR PNG for
// desktop, both carrying the receipt as the transaction note.
func CreateUPIOrderHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, _ := c.Get("user_id")
		userID, _ := userIDVal.(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var req CreateUPIOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "amount must be greater than 0"})
			return
		}

		receipt := "upi_" + uuid.NewString()
		upiURI := buildUPIURI(cfg.UPIPayeeVPA, cfg.UPIPayeeName, req.Amount, receipt)

		qrImageURL, err := writeQRImage(upiURI, receipt, cfg.UploadsDir)
		if err != nil {
			// The deep link still works without the QR image.
			log.Printf("⚠️ Failed to generate UPI QR: %v", err)
		}

		paymentOrder := models.PaymentOrder{
			Receipt:    receipt,
			UserID:     userID,
			Method:     models.PaymentMethodUPI,
			Amount:     req.Amount,
			Currency:   "INR",
			UPIURI:     upiURI,
			QRImageURL: qrImageURL,
			Status:     models.PaymentStatusPending,
			CreatedAt:  time.Now(),
		}
		if err := db.Create(&paymentOrder).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create payment order"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
			"receipt":      receipt,
			"amount":       req.Amount,
			"upi_uri":      upiURI,
			"qr_image_url": qrImageURL,
		}})
	}
}

// POST /api/payment/verify-upi
// The client asserts the UPI payment went through; there is no independent
// confirmation against the payment network here. Trust-based by design of
// the original flow — the order is logged as unverified.
func VerifyUPIHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, payload, ok := bindVerifyPayload(c)
		if !ok {
			return
		}
		if payload.Receipt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "receipt is required"})
			return
		}

		var paymentOrder models.PaymentOrder
		if err := db.Where("receipt = ? AND user_id = ?", payload.Receipt, userID).First(&paymentOrder).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown payment receipt"})
			return
		}

		req := placeOrderRequest(c, userID, payload, models.PaymentMethodUPI, models.PaymentStatusPaid, payload.Receipt)
		order, err := orderControllers.PlaceOrder(db, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		db.Model(&paymentOrder).Update("status", models.PaymentStatusPaid)
		log.Printf("⚠️ UPI payment %s accepted on customer assertion (unverified)", payload.Receipt)

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
	}
}

func buildUPIURI(vpa, payeeName string, amount float64, receipt string) string {
	params := url.Values{}
	params.Set("pa", vpa)
	params.Set("pn", payeeName)
	params.Set("am", fmt.Sprintf("%.2f", amount))
	params.Set("cu", "INR")
	params.Set("tn", receipt)
	return "upi://pay?" + params.Encode()
}

func writeQRImage(upiURI, receipt, uploadsDir string) (string, error) {
	qrDir := filepath.Join(uploadsDir, "qr")
	if err := os.MkdirAll(qrDir, os.ModePerm); err != nil {
		return "", err
	}
	filename := receipt + ".png"
	if err := qrcode.WriteFile(upiURI, qrcode.Medium, 256, filepath.Join(qrDir, filename)); err != nil {
		return "", err
	}
	return "/uploads/qr/" + filename, nil
}
