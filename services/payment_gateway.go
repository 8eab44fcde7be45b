package services

import (
	"chatpilot_site/models"
	"context"
)

// PaymentGateway is the third-party checkout widget as seen from the server.
// The browser performs the actual open step with the options returned by
// Configure.
type PaymentGateway interface {
	// Available returns ErrCollaboratorUnavailable (possibly wrapped) when the
	// widget cannot be offered
	Available() error
	// Configure builds the widget options for intent and may bind a gateway
	// order to it
	Configure(ctx context.Context, intent *models.CheckoutIntent) (*models.WidgetOptions, error)
	// Verify checks a success callback payload against the intent
	Verify(intent *models.CheckoutIntent, result models.PaymentResult) error
}
