package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Checkout states
const (
	CheckoutStateCollecting         = "collecting"
	CheckoutStateDelegated          = "delegated"
	CheckoutStateNotifying          = "notifying"
	CheckoutStateCompleted          = "completed"
	CheckoutStatePartiallyCompleted = "partially_completed"
	CheckoutStateFailed             = "failed"
)

// Checkout outcomes reported back to the browser
const (
	OutcomeSuccess        = "success"
	OutcomePartialSuccess = "partial_success"
	OutcomeFailure        = "failure"
)

// CheckoutIntent tracks one payment hand-off from email entry to the final
// notification. Intents are held in memory only and expire after a TTL.
type CheckoutIntent struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	State     string    `json:"state"`
	OrderID   string    `json:"order_id,omitempty"`
	PaymentID string    `json:"payment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewCheckoutIntent creates an intent in the collecting state
func NewCheckoutIntent(email string, ttl time.Duration) *CheckoutIntent {
	now := time.Now()
	return &CheckoutIntent{
		ID:        uuid.New().String(),
		Email:     strings.TrimSpace(email),
		State:     CheckoutStateCollecting,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the intent outlived its TTL
func (i *CheckoutIntent) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsTerminal reports whether no further transition is accepted, apart from
// a notification retry after partial success
func (i *CheckoutIntent) IsTerminal() bool {
	switch i.State {
	case CheckoutStateCompleted, CheckoutStatePartiallyCompleted, CheckoutStateFailed:
		return true
	}
	return false
}

// RecipientName derives the greeting name from the email: everything before
// the first "@"
func (i *CheckoutIntent) RecipientName() string {
	return NameFromEmail(i.Email)
}

// NameFromEmail truncates an email address at its first "@"
func NameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx >= 0 {
		return email[:idx]
	}
	return email
}

// PaymentResult is what the checkout widget hands to its success callback
type PaymentResult struct {
	PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
	Signature string `json:"razorpay_signature" form:"razorpay_signature"`
}

// WidgetOptions is the configuration object passed to the checkout widget
// constructor in the browser
type WidgetOptions struct {
	Key         string          `json:"key"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	OrderID     string          `json:"order_id,omitempty"`
	Prefill     WidgetPrefill   `json:"prefill"`
	Theme       WidgetTheme     `json:"theme"`
	Callbacks   WidgetCallbacks `json:"callbacks"`
}

type WidgetPrefill struct {
	Email string `json:"email"`
}

type WidgetTheme struct {
	Color string `json:"color"`
}

// WidgetCallbacks are the server endpoints the browser script reports to
type WidgetCallbacks struct {
	Complete    string `json:"complete"`
	Unavailable string `json:"unavailable"`
}

// CheckoutOutcome is the user-visible result of a checkout step
type CheckoutOutcome struct {
	Outcome  string `json:"outcome"`
	Message  string `json:"message"`
	RetryURL string `json:"retry_url,omitempty"`
}
