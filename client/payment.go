package client

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrPaymentCancelled is returned when the customer backs out of a payment
// confirmation. The flow returns to payment selection; nothing was created.
var ErrPaymentCancelled = errors.New("payment cancelled by user")

// FlowState tracks the checkout progression for observers (UI, tests).
type FlowState string

const (
	StateCheckout        FlowState = "checkout"
	StatePaymentSelected FlowState = "payment_selected"
	StateVerifying       FlowState = "verifying"
	StateOrderCreated    FlowState = "order_created"
	StateCartCleared     FlowState = "cart_cleared"
)

// CartLine is one priced line of the cart at checkout time.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type OrderSummary struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// Order is the created order as returned by the backend.
type Order struct {
	ID            uint         `json:"id"`
	OrderNumber   string       `json:"order_number"`
	Status        string       `json:"status"`
	PaymentMethod string       `json:"payment_method"`
	PaymentStatus string       `json:"payment_status"`
	Summary       OrderSummary `json:"orderSummary"`
}

// ComputeSummary mirrors the server's arithmetic: 18% tax rounded to the
// nearest rupee, free shipping, total = subtotal + shipping + tax.
func ComputeSummary(items []CartLine) OrderSummary {
	var subtotal float64
	var count int
	for _, line := range items {
		subtotal += line.Price * float64(line.Quantity)
		count += line.Quantity
	}
	tax := math.Round(0.18 * subtotal)
	return OrderSummary{
		Subtotal:  subtotal,
		Shipping:  0,
		Tax:       tax,
		Total:     subtotal + tax,
		ItemCount: count,
	}
}

// PaymentContext is threaded through one checkout attempt.
type PaymentContext struct {
	Items    []CartLine
	Customer CustomerDetails
	Summary  OrderSummary

	// IdempotencyKey is generated per PlaceOrder call and sent with the
	// order-creating request so a duplicate submission cannot create a
	// second order.
	IdempotencyKey string

	// Provider-populated fields.
	Receipt        string // UPI receipt id
	UPIURI         string
	QRImage        string
	GatewayOrderID string
	GatewayKeyID   string
	Demo           bool
	PaymentID      string
	Signature      string
}

// PaymentProvider is the polymorphic capability each payment method
// implements. One driver loop runs every method through the same
// initiate → await confirmation → verify progression.
type PaymentProvider interface {
	Method() string
	Initiate(ctx context.Context, pc *PaymentContext) error
	AwaitConfirmation(ctx context.Context, pc *PaymentContext) error
	Verify(ctx context.Context, pc *PaymentContext) (*Order, error)
}

// Checkout drives the order/payment state machine.
type Checkout struct {
	client *Client

	// OnState, when set, observes each state transition.
	OnState func(FlowState)
}

func NewCheckout(c *Client) *Checkout {
	return &Checkout{client: c}
}

func (co *Checkout) setState(s FlowState) {
	if co.OnState != nil {
		co.OnState(s)
	}
}

// PlaceOrder runs one checkout attempt end to end. Any failure leaves the
// cart intact and the flow back at payment selection; the caller re-triggers
// explicitly. On success the server has already cleared the cart as part of
// order creation, and the local mirror call is best-effort.
func (co *Checkout) PlaceOrder(ctx context.Context, provider PaymentProvider, items []CartLine, customer CustomerDetails) (*Order, error) {
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}
	for _, line := range items {
		if line.Quantity < 1 {
			return nil, errors.New("line quantity must be at least 1")
		}
	}

	co.setState(StateCheckout)
	pc := &PaymentContext{
		Items:          items,
		Customer:       customer,
		Summary:        ComputeSummary(items),
		IdempotencyKey: uuid.NewString(),
	}

	co.setState(StatePaymentSelected)
	if err := provider.Initiate(ctx, pc); err != nil {
		return nil, err
	}
	if err := provider.AwaitConfirmation(ctx, pc); err != nil {
		return nil, err
	}

	co.setState(StateVerifying)
	order, err := provider.Verify(ctx, pc)
	if err != nil {
		co.setState(StatePaymentSelected)
		return nil, err
	}
	co.setState(StateOrderCreated)

	co.setState(StateCartCleared)
	return order, nil
}

// orderPayload is the body every verify endpoint accepts.
type orderPayload struct {
	Items           []orderItemPayload `json:"items"`
	CustomerDetails CustomerDetails    `json:"customerDetails"`
	OrderSummary    OrderSummary       `json:"orderSummary"`
	Receipt         string             `json:"receipt,omitempty"`
	GatewayOrderID  string             `json:"razorpay_order_id,omitempty"`
	PaymentID       string             `json:"razorpay_payment_id,omitempty"`
	Signature       string             `json:"razorpay_signature,omitempty"`
}

type orderItemPayload struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func buildOrderPayload(pc *PaymentContext) orderPayload {
	payload := orderPayload{
		CustomerDetails: pc.Customer,
		OrderSummary:    pc.Summary,
		Receipt:         pc.Receipt,
		GatewayOrderID:  pc.GatewayOrderID,
		PaymentID:       pc.PaymentID,
		Signature:       pc.Signature,
	}
	for _, line := range pc.Items {
		payload.Items = append(payload.Items, orderItemPayload{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return payload
}

func idempotencyHeader(pc *PaymentContext) *RequestOptions {
	h := http.Header{}
	h.Set("Idempotency-Key", pc.IdempotencyKey)
	return &RequestOptions{Header: h}
}

// -------- COD --------

// CODProvider needs no external party: the order is created pending/pending
// in one verify call.
type CODProvider struct {
	Client *Client
}

func (p *CODProvider) Method() string { return "cod" }

func (p *CODProvider) Initiate(ctx context.Context, pc *PaymentContext) error { return nil }

func (p *CODProvider) AwaitConfirmation(ctx context.Context, pc *PaymentContext) error { return nil }

func (p *CODProvider) Verify(ctx context.Context, pc *PaymentContext) (*Order, error) {
	var order Order
	if err := p.Client.Post(ctx, "/api/payment/verify-cod", buildOrderPayload(pc), &order, idempotencyHeader(pc)); err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- UPI --------

// UPIOrder is the payment order the backend prepares for a UPI attempt.
type UPIOrder struct {
	Receipt    string  `json:"receipt"`
	Amount     float64 `json:"amount"`
	UPIURI     string  `json:"upi_uri"`
	QRImageURL string  `json:"qr_image_url"`
}

// UPIConfirmer presents the deep link / QR code and reports whether the
// customer asserted completion. Returning false means cancelled.
type UPIConfirmer func(ctx context.Context, order UPIOrder) (bool, error)

// UPIProvider runs the manual-confirmation UPI flow. The backend trusts the
// client's "payment done" assertion without independent proof; that gap is
// deliberate and documented, not something this SDK papers over.
type UPIProvider struct {
	Client    *Client
	Confirmer UPIConfirmer
}

func (p *UPIProvider) Method() string { return "upi" }

func (p *UPIProvider) Initiate(ctx context.Context, pc *PaymentContext) error {
	var order UPIOrder
	body := map[string]interface{}{"amount": pc.Summary.Total}
	if err := p.Client.Post(ctx, "/api/payment/upi/order", body, &order, nil); err != nil {
		return err
	}
	pc.Receipt = order.Receipt
	pc.UPIURI = order.UPIURI
	pc.QRImage = order.QRImageURL
	return nil
}

func (p *UPIProvider) AwaitConfirmation(ctx context.Context, pc *PaymentContext) error {
	if p.Confirmer == nil {
		return errors.New("upi provider requires a confirmer")
	}
	done, err := p.Confirmer(ctx, UPIOrder{Receipt: pc.Receipt, Amount: pc.Summary.Total, UPIURI: pc.UPIURI, QRImageURL: pc.QRImage})
	if err != nil {
		return err
	}
	if !done {
		return ErrPaymentCancelled
	}
	return nil
}

func (p *UPIProvider) Verify(ctx context.Context, pc *PaymentContext) (*Order, error) {
	var order Order
	if err := p.Client.Post(ctx, "/api/payment/verify-upi", buildOrderPayload(pc), &order, idempotencyHeader(pc)); err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Razorpay --------

// GatewayOrder is the backend's razorpay order-creation response.
type GatewayOrder struct {
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"` // paise
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
	Demo     bool    `json:"demo"`
	Receipt  string  `json:"receipt"`
	Total    float64 `json:"total"`
}

// GatewayPayment is what the checkout widget hands back on success.
type GatewayPayment struct {
	PaymentID string
	Signature string
}

// GatewayCheckout opens the real payment widget and blocks until it reports
// success, failure, or dismissal.
type GatewayCheckout func(ctx context.Context, order GatewayOrder) (*GatewayPayment, error)

// demoSettleDelay imitates the gateway round-trip in demo mode.
const demoSettleDelay = 2 * time.Second

// RazorpayProvider runs the card/wallet gateway flow. With no gateway keys
// configured server-side the order comes back demo-flagged and a synthetic
// payment response is fabricated after a fixed delay instead of opening the
// widget.
type RazorpayProvider struct {
	Client   *Client
	Checkout GatewayCheckout

	// sleep is swapped in tests.
	sleep func(context.Context, time.Duration) error
}

func (p *RazorpayProvider) Method() string { return "razorpay" }

func (p *RazorpayProvider) Initiate(ctx context.Context, pc *PaymentContext) error {
	var order GatewayOrder
	body := map[string]interface{}{"amount": pc.Summary.Total}
	if err := p.Client.Post(ctx, "/api/payment/razorpay/order", body, &order, nil); err != nil {
		return err
	}
	pc.GatewayOrderID = order.OrderID
	pc.GatewayKeyID = order.KeyID
	pc.Demo = order.Demo
	pc.Receipt = order.Receipt
	return nil
}

func (p *RazorpayProvider) AwaitConfirmation(ctx context.Context, pc *PaymentContext) error {
	if pc.Demo {
		sleep := p.sleep
		if sleep == nil {
			sleep = sleepCtx
		}
		if err := sleep(ctx, demoSettleDelay); err != nil {
			return err
		}
		pc.PaymentID = "pay_demo_" + uuid.NewString()[:8]
		pc.Signature = ""
		return nil
	}

	if p.Checkout == nil {
		return errors.New("razorpay provider requires a checkout callback")
	}
	payment, err := p.Checkout(ctx, GatewayOrder{OrderID: pc.GatewayOrderID, KeyID: pc.GatewayKeyID, Receipt: pc.Receipt})
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentCancelled
	}
	pc.PaymentID = payment.PaymentID
	pc.Signature = payment.Signature
	return nil
}

func (p *RazorpayProvider) Verify(ctx context.Context, pc *PaymentContext) (*Order, error) {
	var order Order
	if err := p.Client.Post(ctx, "/api/payment/razorpay/verify", buildOrderPayload(pc), &order, idempotencyHeader(pc)); err != nil {
		return nil, err
	}
	return &order, nil
}
