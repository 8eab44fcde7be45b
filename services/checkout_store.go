package services

import (
	"chatpilot_site/models"
	"fmt"
	"sync"
	"time"
)

// CheckoutStore keeps checkout intents in memory until they expire. Callers
// always receive copies; state changes go through Transition.
type CheckoutStore struct {
	mu      sync.Mutex
	intents map[string]*models.CheckoutIntent
	now     func() time.Time
}

func NewCheckoutStore() *CheckoutStore {
	return &CheckoutStore{
		intents: make(map[string]*models.CheckoutIntent),
		now:     time.Now,
	}
}

// Save stores a copy of intent
func (s *CheckoutStore) Save(intent *models.CheckoutIntent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *intent
	s.intents[intent.ID] = &stored
}

// Get returns a copy of the intent, or ErrCheckoutNotFound if it is unknown
// or expired
func (s *CheckoutStore) Get(id string) (*models.CheckoutIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	found := *intent
	return &found, nil
}

// Transition moves the intent to state `to` if its current state is `from`.
// mutate, when non-nil, runs on the stored intent under the lock.
func (s *CheckoutStore) Transition(id, from, to string, mutate func(*models.CheckoutIntent)) (*models.CheckoutIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if intent.State != from {
		return nil, fmt.Errorf("%w: %s -> %s (current %s)", ErrInvalidTransition, from, to, intent.State)
	}

	intent.State = to
	intent.UpdatedAt = s.now()
	if mutate != nil {
		mutate(intent)
	}

	updated := *intent
	return &updated, nil
}

// PurgeExpired drops every expired intent and returns how many were removed
func (s *CheckoutStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, intent := range s.intents {
		if intent.IsExpired(now) {
			delete(s.intents, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored intents, expired ones included
func (s *CheckoutStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.intents)
}

func (s *CheckoutStore) lookup(id string) (*models.CheckoutIntent, error) {
	intent, ok := s.intents[id]
	if !ok || intent.IsExpired(s.now()) {
		return nil, ErrCheckoutNotFound
	}
	return intent, nil
}
