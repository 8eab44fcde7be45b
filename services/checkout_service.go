package services

import (
	"chatpilot_site/models"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// CheckoutService drives the payment hand-off:
//
//	collecting -> delegated -> notifying -> completed | partially_completed
//	delegated  -> failed (widget unavailable in the browser)
//	partially_completed -> notifying (notification retry)
//
// The app link notification is only ever sent after a success callback has
// been accepted for a delegated intent.
type CheckoutService struct {
	gateway  PaymentGateway
	notifier AppLinkNotifier
	store    *CheckoutStore
	ttl      time.Duration
}

func NewCheckoutService(gateway PaymentGateway, notifier AppLinkNotifier, store *CheckoutStore, ttl time.Duration) *CheckoutService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &CheckoutService{
		gateway:  gateway,
		notifier: notifier,
		store:    store,
		ttl:      ttl,
	}
}

// Proceed validates the email and delegates the checkout to the widget
func (s *CheckoutService) Proceed(ctx context.Context, email string) (*models.CheckoutIntent, *models.WidgetOptions, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil, &ValidationError{Fields: map[string]string{"email": MsgFieldRequired}}
	}

	if s.gateway == nil {
		return nil, nil, ErrCollaboratorUnavailable
	}
	if err := s.gateway.Available(); err != nil {
		return nil, nil, err
	}

	intent := models.NewCheckoutIntent(email, s.ttl)
	opts, err := s.gateway.Configure(ctx, intent)
	if err != nil {
		if errors.Is(err, ErrCollaboratorUnavailable) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to configure payment widget: %w", err)
	}

	intent.State = models.CheckoutStateDelegated
	s.store.Save(intent)
	log.Printf("[INFO] Checkout %s delegated to payment widget", intent.ID)

	return intent, opts, nil
}

// CompletePayment handles the widget success callback. A notification failure
// is reported as PartialSuccessError: the payment has already gone through.
func (s *CheckoutService) CompletePayment(ctx context.Context, id string, result models.PaymentResult) (*models.CheckoutIntent, error) {
	intent, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if intent.State == models.CheckoutStateDelegated {
		if err := s.gateway.Verify(intent, result); err != nil {
			log.Printf("[WARNING] Checkout %s payment verification failed: %v", id, err)
			return nil, err
		}
	}

	intent, err = s.store.Transition(id, models.CheckoutStateDelegated, models.CheckoutStateNotifying, func(i *models.CheckoutIntent) {
		i.PaymentID = result.PaymentID
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Checkout %s paid (payment %s), sending app link", id, result.PaymentID)

	return s.notify(ctx, intent)
}

// RetryNotification re-sends the app link after a partial success. The
// payment itself is never repeated.
func (s *CheckoutService) RetryNotification(ctx context.Context, id string) (*models.CheckoutIntent, error) {
	intent, err := s.store.Transition(id, models.CheckoutStatePartiallyCompleted, models.CheckoutStateNotifying, nil)
	if err != nil {
		return nil, err
	}
	return s.notify(ctx, intent)
}

// ReportWidgetUnavailable closes a delegated checkout whose widget never
// loaded in the browser
func (s *CheckoutService) ReportWidgetUnavailable(id string) (*models.CheckoutIntent, error) {
	intent, err := s.store.Transition(id, models.CheckoutStateDelegated, models.CheckoutStateFailed, nil)
	if err != nil {
		return nil, err
	}
	log.Printf("[WARNING] Checkout %s failed: payment widget unavailable in browser", id)
	return intent, nil
}

// Get returns a copy of the checkout intent
func (s *CheckoutService) Get(id string) (*models.CheckoutIntent, error) {
	return s.store.Get(id)
}

// PurgeExpired removes expired intents from the store
func (s *CheckoutService) PurgeExpired() int {
	return s.store.PurgeExpired()
}

func (s *CheckoutService) notify(ctx context.Context, intent *models.CheckoutIntent) (*models.CheckoutIntent, error) {
	// The money has moved: a client disconnect must not abort the notification
	notifyCtx := context.WithoutCancel(ctx)

	sendErr := s.notifier.SendAppLink(notifyCtx, intent.Email, intent.RecipientName())
	if sendErr != nil {
		log.Printf("[WARNING] Checkout %s: payment succeeded but app link failed: %v", intent.ID, sendErr)
		updated, err := s.store.Transition(intent.ID, models.CheckoutStateNotifying, models.CheckoutStatePartiallyCompleted, nil)
		if err != nil {
			return nil, err
		}
		return updated, &PartialSuccessError{CheckoutID: intent.ID, Err: sendErr}
	}

	updated, err := s.store.Transition(intent.ID, models.CheckoutStateNotifying, models.CheckoutStateCompleted, nil)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Checkout %s completed", intent.ID)
	return updated, nil
}
