package models

import "time"

// PaymentOrder records a payment initiation (UPI or Razorpay) before the
// order itself exists. Verification endpoints look the receipt up here.
type PaymentOrder struct {
	ID             uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Receipt        string        `gorm:"uniqueIndex;not null" json:"receipt"`
	UserID         string        `gorm:"index" json:"user_id"`
	Method         PaymentMethod `gorm:"type:VARCHAR(20)" json:"method"`
	Amount         float64       `json:"amount"`
	Currency       string        `gorm:"default:'INR'" json:"currency"`
	GatewayOrderID string        `json:"gateway_order_id"` // Razorpay order id, empty for UPI
	UPIURI         string        `json:"upi_uri"`
	QRImageURL     string        `json:"qr_image_url"`
	Demo           bool          `json:"demo"`
	Status         PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}
