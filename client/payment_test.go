package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCart() []CartLine {
	return []CartLine{
		{ProductID: 1, Name: "MCB 16A", Price: 100, Quantity: 2},
		{ProductID: 2, Name: "Switch Plate", Price: 50, Quantity: 1},
	}
}

func testCustomer() CustomerDetails {
	return CustomerDetails{
		Name:    "Ravi",
		Email:   "ravi@example.com",
		Phone:   "9876543210",
		Street:  "12 Market Road",
		City:    "Coimbatore",
		State:   "Tamil Nadu",
		Pincode: "641001",
	}
}

func TestComputeSummary(t *testing.T) {
	summary := ComputeSummary(testCart())
	assert.Equal(t, 250.0, summary.Subtotal)
	assert.Equal(t, 45.0, summary.Tax, "18% of 250, rounded")
	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 295.0, summary.Total)
	assert.Equal(t, 3, summary.ItemCount)
}

func TestComputeSummaryRoundsTax(t *testing.T) {
	summary := ComputeSummary([]CartLine{{ProductID: 1, Price: 99.0, Quantity: 1}})
	assert.Equal(t, 18.0, summary.Tax, "17.82 rounds to 18")
	assert.Equal(t, 117.0, summary.Total)
}

func TestPlaceOrderCODFullProgression(t *testing.T) {
	var gotKey string
	var gotPayload orderPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payment/verify-cod", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":1,"order_number":"ORD-1","status":"pending","payment_method":"cod","payment_status":"pending"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	co := NewCheckout(New(srv.URL, nil))
	var states []FlowState
	co.OnState = func(s FlowState) { states = append(states, s) }

	order, err := co.PlaceOrder(context.Background(), &CODProvider{Client: co.client}, testCart(), testCustomer())
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", order.OrderNumber)
	assert.Equal(t, "pending", order.PaymentStatus)

	assert.Equal(t, []FlowState{
		StateCheckout,
		StatePaymentSelected,
		StateVerifying,
		StateOrderCreated,
		StateCartCleared,
	}, states)

	assert.NotEmpty(t, gotKey, "every placement carries an idempotency key")
	assert.Len(t, gotPayload.Items, 2)
	assert.Equal(t, 295.0, gotPayload.OrderSummary.Total)
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	co := NewCheckout(New("http://127.0.0.1:0", nil))
	_, err := co.PlaceOrder(context.Background(), &CODProvider{Client: co.client}, nil, testCustomer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestPlaceOrderRejectsZeroQuantity(t *testing.T) {
	co := NewCheckout(New("http://127.0.0.1:0", nil))
	items := []CartLine{{ProductID: 1, Price: 10, Quantity: 0}}
	_, err := co.PlaceOrder(context.Background(), &CODProvider{Client: co.client}, items, testCustomer())
	require.Error(t, err)
}

func TestUPICancelReturnsToPaymentSelection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payment/upi/order", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"receipt":"upi_r1","amount":295,"upi_uri":"upi://pay?pa=electrostore@upi","qr_image_url":"/uploads/qr/upi_r1.png"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	co := NewCheckout(New(srv.URL, nil))
	var states []FlowState
	co.OnState = func(s FlowState) { states = append(states, s) }

	provider := &UPIProvider{
		Client: co.client,
		Confirmer: func(ctx context.Context, order UPIOrder) (bool, error) {
			assert.Equal(t, "upi_r1", order.Receipt)
			assert.True(t, strings.HasPrefix(order.UPIURI, "upi://pay"))
			return false, nil // customer dismissed the prompt
		},
	}

	_, err := co.PlaceOrder(context.Background(), provider, testCart(), testCustomer())
	require.ErrorIs(t, err, ErrPaymentCancelled)

	// No verify state: the flow never got past confirmation.
	assert.Equal(t, []FlowState{StateCheckout, StatePaymentSelected}, states)
}

func TestUPIConfirmedPlacesOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payment/upi/order", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"receipt":"upi_r2","amount":295,"upi_uri":"upi://pay?pa=electrostore@upi","qr_image_url":"/uploads/qr/upi_r2.png"}}`))
	})
	mux.HandleFunc("/api/payment/verify-upi", func(w http.ResponseWriter, r *http.Request) {
		var payload orderPayload
		json.NewDecoder(r.Body).Decode(&payload)
		assert.Equal(t, "upi_r2", payload.Receipt)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":2,"order_number":"ORD-2","status":"pending","payment_method":"upi","payment_status":"paid"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	co := NewCheckout(New(srv.URL, nil))
	provider := &UPIProvider{
		Client:    co.client,
		Confirmer: func(ctx context.Context, order UPIOrder) (bool, error) { return true, nil },
	}

	order, err := co.PlaceOrder(context.Background(), provider, testCart(), testCustomer())
	require.NoError(t, err)
	assert.Equal(t, "paid", order.PaymentStatus)
}

func TestRazorpayDemoFabricatesPayment(t *testing.T) {
	var verified orderPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payment/razorpay/order", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"order_id":"order_demo_ab12cd34","amount":29500,"currency":"INR","key_id":"","demo":true,"receipt":"rzp_r1"}}`))
	})
	mux.HandleFunc("/api/payment/razorpay/verify", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&verified)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":3,"order_number":"ORD-3","status":"pending","payment_method":"razorpay","payment_status":"paid"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	co := NewCheckout(New(srv.URL, nil))
	var slept []time.Duration
	provider := &RazorpayProvider{
		Client: co.client,
		sleep: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}

	order, err := co.PlaceOrder(context.Background(), provider, testCart(), testCustomer())
	require.NoError(t, err)
	assert.Equal(t, "paid", order.PaymentStatus)

	assert.Equal(t, []time.Duration{demoSettleDelay}, slept)
	assert.True(t, strings.HasPrefix(verified.PaymentID, "pay_demo_"))
	assert.Empty(t, verified.Signature, "demo payments carry no signature")
	assert.Equal(t, "order_demo_ab12cd34", verified.GatewayOrderID)
}

func TestRazorpayDismissedWidgetCancels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payment/razorpay/order", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"order_id":"order_real_1","amount":29500,"currency":"INR","key_id":"rzp_test_key","demo":false,"receipt":"rzp_r2"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	co := NewCheckout(New(srv.URL, nil))
	provider := &RazorpayProvider{
		Client: co.client,
		Checkout: func(ctx context.Context, order GatewayOrder) (*GatewayPayment, error) {
			return nil, nil // widget dismissed
		},
	}

	_, err := co.PlaceOrder(context.Background(), provider, testCart(), testCustomer())
	require.ErrorIs(t, err, ErrPaymentCancelled)
}

func TestVerifyFailureReturnsToPaymentSelection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payment/verify-cod", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Insufficient stock for MCB 16A"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	co := NewCheckout(New(srv.URL, nil))
	var states []FlowState
	co.OnState = func(s FlowState) { states = append(states, s) }

	_, err := co.PlaceOrder(context.Background(), &CODProvider{Client: co.client}, testCart(), testCustomer())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	assert.Equal(t, StatePaymentSelected, states[len(states)-1], "failed verify drops back to payment selection")
}
