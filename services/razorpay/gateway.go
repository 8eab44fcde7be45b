package razorpay

import (
	"chatpilot_site/config"
	"chatpilot_site/models"
	"chatpilot_site/services"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var _ services.PaymentGateway = (*Gateway)(nil)

// Gateway is the Razorpay Checkout widget behind services.PaymentGateway.
// With a key secret configured it creates an order per checkout and verifies
// the callback signature; without one it trusts the widget callback.
type Gateway struct {
	cfg    *config.Config
	client *resty.Client
}

// orderRequest is the Orders API request body
type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the subset of the Orders API response we use
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewGateway creates a Razorpay gateway from configuration
func NewGateway(cfg *config.Config) *Gateway {
	client := resty.New().
		SetBaseURL(cfg.RazorpayAPIBaseURL).
		SetTimeout(15*time.Second).
		SetBasicAuth(cfg.RazorpayKeyID, cfg.RazorpayKeySecret).
		SetHeader("Content-Type", "application/json")

	return &Gateway{cfg: cfg, client: client}
}

// ScriptURL is the widget script the landing page loads
func (g *Gateway) ScriptURL() string {
	return g.cfg.RazorpayScriptURL
}

// Available fails closed when the widget cannot be offered
func (g *Gateway) Available() error {
	if g.cfg.RazorpayKeyID == "" {
		return fmt.Errorf("%w: RAZORPAY_KEY_ID not configured", services.ErrCollaboratorUnavailable)
	}
	if g.cfg.RazorpayScriptURL == "" {
		return fmt.Errorf("%w: RAZORPAY_SCRIPT_URL not configured", services.ErrCollaboratorUnavailable)
	}
	return nil
}

// Configure builds the widget options for intent
func (g *Gateway) Configure(ctx context.Context, intent *models.CheckoutIntent) (*models.WidgetOptions, error) {
	if err := g.Available(); err != nil {
		return nil, err
	}

	if g.verifies() {
		order, err := g.CreateOrder(ctx, intent)
		if err != nil {
			return nil, err
		}
		intent.OrderID = order.ID
	}

	return &models.WidgetOptions{
		Key:         g.cfg.RazorpayKeyID,
		Amount:      g.cfg.CheckoutAmount,
		Currency:    g.cfg.CheckoutCurrency,
		Name:        g.cfg.CheckoutProductName,
		Description: g.cfg.CheckoutDescription,
		Image:       g.cfg.CheckoutImageURL,
		OrderID:     intent.OrderID,
		Prefill:     models.WidgetPrefill{Email: intent.Email},
		Theme:       models.WidgetTheme{Color: g.cfg.CheckoutThemeColor},
	}, nil
}

// CreateOrder registers an order for the checkout amount with Razorpay
func (g *Gateway) CreateOrder(ctx context.Context, intent *models.CheckoutIntent) (*Order, error) {
	var order Order
	var apiErr apiError

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(orderRequest{
			Amount:   g.cfg.CheckoutAmount,
			Currency: g.cfg.CheckoutCurrency,
			Receipt:  receipt(intent.ID),
			Notes:    map[string]string{"email": intent.Email, "checkout_id": intent.ID},
		}).
		SetResult(&order).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrCollaboratorUnavailable, &services.NetworkError{Op: "razorpay-orders", Err: err})
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: order creation failed with status %d: %s",
			services.ErrCollaboratorUnavailable, resp.StatusCode(), apiErr.Error.Description)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: order response without id", services.ErrCollaboratorUnavailable)
	}
	return &order, nil
}

// Verify checks the callback signature when a key secret is configured
func (g *Gateway) Verify(intent *models.CheckoutIntent, result models.PaymentResult) error {
	if !g.verifies() {
		return nil
	}
	if result.PaymentID == "" || result.Signature == "" {
		return fmt.Errorf("%w: missing payment id or signature", services.ErrPaymentVerification)
	}
	if result.OrderID != intent.OrderID {
		return fmt.Errorf("%w: order mismatch", services.ErrPaymentVerification)
	}

	expected := Sign(g.cfg.RazorpayKeySecret, intent.OrderID, result.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(result.Signature)) {
		return fmt.Errorf("%w: signature mismatch", services.ErrPaymentVerification)
	}
	return nil
}

// Sign computes the checkout signature Razorpay sends to the success handler
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *Gateway) verifies() bool {
	return g.cfg.RazorpayKeySecret != ""
}

// receipt fits the 40 character limit of the Orders API
func receipt(checkoutID string) string {
	r := "chk_" + checkoutID
	if len(r) > 40 {
		return r[:40]
	}
	return r
}
