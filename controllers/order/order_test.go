package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: "u1", Email: "ravi@example.com", Password: "x", Name: "Ravi"}).Error)
	require.NoError(t, db.Create(&models.Product{ID: 1, Name: "MCB 16A", Price: 100, MRP: 120, Stock: 10, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Product{ID: 2, Name: "Switch Plate", Price: 50, MRP: 60, Stock: 5, IsActive: true}).Error)

	cart := models.Cart{UserID: "u1"}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.CartID, ProductID: 1, ProductName: "MCB 16A", Price: 100, Quantity: 2}).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.CartID, ProductID: 2, ProductName: "Switch Plate", Price: 50, Quantity: 1}).Error)
}

func placeRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		UserID: "u1",
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		CustomerDetails: models.CustomerDetails{
			Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210",
			Street: "12 Market Road", City: "Coimbatore", State: "Tamil Nadu", Pincode: "641001",
		},
		PaymentMethod: "cod",
		PaymentStatus: "pending",
	}
}

func TestComputeSummaryTotals(t *testing.T) {
	summary := ComputeSummary([]models.OrderItem{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	})
	assert.Equal(t, 250.0, summary.Subtotal)
	assert.Equal(t, 45.0, summary.Tax)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 295.0, summary.Total)
	assert.Equal(t, 3, summary.ItemCount)
}

func TestPlaceOrderCreatesOrderAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	order, err := PlaceOrder(db, placeRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, 295.0, order.Summary.Total)
	assert.Len(t, order.Items, 2)

	// Stock deducted under the same transaction.
	var p1, p2 models.Product
	require.NoError(t, db.First(&p1, 1).Error)
	require.NoError(t, db.First(&p2, 2).Error)
	assert.Equal(t, 8, p1.Stock)
	assert.Equal(t, 4, p2.Stock)

	// Cart emptied.
	var remaining int64
	db.Model(&models.CartItem{}).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestPlaceOrderSnapshotsProductDetails(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	order, err := PlaceOrder(db, placeRequest())
	require.NoError(t, err)

	// Lines carry the catalog price at placement time, not the client's.
	assert.Equal(t, "MCB 16A", order.Items[0].ProductName)
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Equal(t, 120.0, order.Items[0].MRP)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	req := placeRequest()
	req.Items = []OrderItemInput{{ProductID: 2, Quantity: 100}}

	_, err := PlaceOrder(db, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// Nothing committed.
	var p2 models.Product
	require.NoError(t, db.First(&p2, 2).Error)
	assert.Equal(t, 5, p2.Stock)
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	req := placeRequest()
	req.Items = []OrderItemInput{{ProductID: 999, Quantity: 1}}

	_, err := PlaceOrder(db, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product does not exist")
}

func TestPlaceOrderRejectsTotalMismatch(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	req := placeRequest()
	req.Summary = models.OrderSummary{Total: 100} // server computes 295

	_, err := PlaceOrder(db, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total mismatch")
}

func TestPlaceOrderAcceptsMatchingClientSummary(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	req := placeRequest()
	req.Summary = models.OrderSummary{Subtotal: 250, Shipping: 0, Tax: 45, Total: 295, ItemCount: 3}

	order, err := PlaceOrder(db, req)
	require.NoError(t, err)
	assert.Equal(t, 295.0, order.Summary.Total)
}

func TestPlaceOrderIdempotencyKeyReplays(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	req := placeRequest()
	req.IdempotencyKey = "idem-abc-123"

	first, err := PlaceOrder(db, req)
	require.NoError(t, err)

	second, err := PlaceOrder(db, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same key returns the same order")

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Stock was deducted once, not twice.
	var p1 models.Product
	require.NoError(t, db.First(&p1, 1).Error)
	assert.Equal(t, 8, p1.Stock)
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	db := setupTestDB(t)
	req := placeRequest()
	req.Items = nil
	_, err := PlaceOrder(db, req)
	require.Error(t, err)
}

func TestPlaceOrderRejectsUnknownMethod(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	req := placeRequest()
	req.PaymentMethod = "cheque"
	_, err := PlaceOrder(db, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payment method")
}

func TestPlaceOrderHandlerReadsIdempotencyHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	seedCatalog(t, db)

	r := gin.New()
	r.POST("/api/orders/place", PlaceOrderHandler(db))

	body, _ := json.Marshal(placeRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/orders/place", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "idem-handler-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.Where("idempotency_key = ?", "idem-handler-1").First(&order).Error)
	assert.Equal(t, 295.0, order.Summary.Total)
}

func TestGetOrderByIDHandlerAcceptsOrderNumber(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	seedCatalog(t, db)

	placed, err := PlaceOrder(db, placeRequest())
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/orders/:orderID", GetOrderByIDHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+placed.OrderNumber, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, placed.ID, resp.Data.ID)
}

func TestUpdateOrderStatusHandlerRejectsUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	seedCatalog(t, db)

	placed, err := PlaceOrder(db, placeRequest())
	require.NoError(t, err)

	r := gin.New()
	r.PUT("/api/admin/orders/:orderID/status", UpdateOrderStatusHandler(db))

	body := bytes.NewReader([]byte(`{"status":"teleported"}`))
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", placed.ID), body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusHandlerProgressesOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	seedCatalog(t, db)

	placed, err := PlaceOrder(db, placeRequest())
	require.NoError(t, err)

	r := gin.New()
	r.PUT("/api/admin/orders/:orderID/status", UpdateOrderStatusHandler(db))

	for _, status := range []string{"confirmed", "processing", "shipped", "delivered"} {
		body := bytes.NewReader([]byte(fmt.Sprintf(`{"status":%q}`, status)))
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", placed.ID), body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, status)
	}

	var order models.Order
	require.NoError(t, db.First(&order, placed.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
}
