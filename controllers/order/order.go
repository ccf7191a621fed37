package orderControllers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

const taxRate = 0.18

// Shipping is free storewide; the checkout summary still carries the field
// so the invariant total = subtotal + shipping + tax stays checkable.
const shippingCost = 0.0

// -------- Request Structs --------

type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	UserID          string                 `json:"user_id" binding:"required"`
	Items           []OrderItemInput       `json:"items" binding:"required,dive"`
	CustomerDetails models.CustomerDetails `json:"customerDetails"`
	Summary         models.OrderSummary    `json:"orderSummary"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	PaymentStatus   string                 `json:"payment_status" binding:"required"`
	PaymentRef      string                 `json:"payment_ref"`
	IdempotencyKey  string                 `json:"-"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Map string to PaymentStatus
func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

func mapPaymentMethod(method string) (models.PaymentMethod, error) {
	switch strings.ToLower(method) {
	case string(models.PaymentMethodCOD):
		return models.PaymentMethodCOD, nil
	case string(models.PaymentMethodUPI):
		return models.PaymentMethodUPI, nil
	case string(models.PaymentMethodRazorpay):
		return models.PaymentMethodRazorpay, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

// lockForUpdate row-locks the selected rows on Postgres. SQLite has no
// FOR UPDATE; its writes serialize on the file lock anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Generate unique order reference
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// ComputeSummary derives the authoritative order totals from priced lines.
func ComputeSummary(items []models.OrderItem) models.OrderSummary {
	var subtotal float64
	var itemCount int
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
		itemCount += item.Quantity
	}
	tax := math.Round(taxRate * subtotal)
	return models.OrderSummary{
		Subtotal:  subtotal,
		Shipping:  shippingCost,
		Tax:       tax,
		Total:     subtotal + shippingCost + tax,
		ItemCount: itemCount,
	}
}

// -------- Core Logic --------

// PlaceOrder creates a new order inside one transaction: stock is checked
// and deducted under row locks, totals are recomputed server-side, and the
// user's cart is cleared. A repeated idempotency key returns the order that
// key already created instead of a duplicate.
func PlaceOrder(db *gorm.DB, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order has no items")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, errors.New("item quantity must be at least 1")
		}
	}

	method, err := mapPaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	orderStatus := models.OrderStatusPending
	paymentStatus, err := mapPaymentStatus(req.PaymentStatus)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		var existing models.Order
		err := db.Preload("Items").Where("idempotency_key = ?", req.IdempotencyKey).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Redis fast path: a lost reservation with no order on record means
		// the first submission is still in flight.
		if !reserveIdempotencyKey(context.Background(), req.IdempotencyKey) {
			return nil, errors.New("duplicate order submission is already being processed")
		}
	}

	var order models.Order
	txErr := db.Transaction(func(tx *gorm.DB) error {
		var orderItems []models.OrderItem

		for _, item := range req.Items {
			var product models.Product
			if err := lockForUpdate(tx).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("product does not exist")
				}
				return err
			}

			if product.Stock < item.Quantity {
				return errors.New("insufficient stock for product: " + product.Name)
			}

			// Deduct stock
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.ImageURL,
				Price:        product.Price,
				MRP:          product.MRP,
				Quantity:     item.Quantity,
			})
		}

		summary := ComputeSummary(orderItems)

		// The client sends its own computed totals; reject a payload whose
		// total disagrees with the server's arithmetic.
		if req.Summary.Total != 0 && math.Abs(req.Summary.Total-summary.Total) > 0.009 {
			return errors.New("order total mismatch: expected total = subtotal + shipping + tax")
		}

		var idemKey *string
		if req.IdempotencyKey != "" {
			key := req.IdempotencyKey
			idemKey = &key
		}

		order = models.Order{
			OrderNumber:     generateOrderRef(),
			IdempotencyKey:  idemKey,
			UserID:          req.UserID,
			Items:           orderItems,
			CustomerDetails: req.CustomerDetails,
			Summary:         summary,
			PaymentMethod:   method,
			PaymentStatus:   paymentStatus,
			PaymentRef:      req.PaymentRef,
			Status:          orderStatus,
			CreatedAt:       time.Now(),
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear cart items
		var cart models.Cart
		if err := tx.Where("user_id = ?", req.UserID).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		// A unique violation on the idempotency key means a concurrent
		// request with the same key won the race; hand back its order.
		if req.IdempotencyKey != "" {
			var existing models.Order
			if err := db.Preload("Items").Where("idempotency_key = ?", req.IdempotencyKey).First(&existing).Error; err == nil {
				return &existing, nil
			}
		}
		return nil, txErr
	}

	broadcastNewOrder(order)
	return &order, nil
}

// -------- Handlers --------

// POST /api/orders/place
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")

		order, err := PlaceOrder(db, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// GET /api/admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}

// GET /api/orders/my
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, _ := c.Get("user_id")
		userID, _ := userIDVal.(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}

// GET /api/orders/:orderID — accepts numeric id or order number
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderID is required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("Items").
			Where("id = ? OR order_number = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// PUT /api/admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated successfully"})
	}
}

// PUT /api/admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderID is required"})
			return
		}
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("payment_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment status updated successfully"})
	}
}

// DELETE /api/admin/orders/:orderID
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderID is required"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", orderID).
				Delete(&models.Order{}).Error; err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted successfully"})
	}
}
