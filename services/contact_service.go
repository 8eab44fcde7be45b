package services

import (
	"chatpilot_site/models"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"
)

// Validation message keys, resolved through i18n by the handlers
const (
	MsgFieldRequired = "form.error.required"
	MsgEmailInvalid  = "form.error.email"
)

// ContactService validates "Talk to Business" requests and relays them once
type ContactService struct {
	relay    ContactRelay
	validate *validator.Validate
	policy   *bluemonday.Policy
	inflight singleflight.Group
}

// NewContactService creates a contact service relaying through relay
func NewContactService(relay ContactRelay) *ContactService {
	return &ContactService{
		relay:    relay,
		validate: newValidator(),
		policy:   bluemonday.StrictPolicy(),
	}
}

// newValidator reports field errors under their json names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes req in place and reports every failing field
func (s *ContactService) Validate(req *models.ContactRequest) error {
	req.Normalize()
	req.Name = s.stripMarkup(req.Name)
	req.Interest = s.stripMarkup(req.Interest)

	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate contact request: %w", err)
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg := MsgFieldRequired
		if fe.Tag() == "contains" {
			msg = MsgEmailInvalid
		}
		verr.Fields[fe.Field()] = msg
	}
	return verr
}

// Submit validates req and relays it to the contact endpoint. Identical
// submissions from the same client that arrive while one is still in flight
// share that single outbound call.
func (s *ContactService) Submit(ctx context.Context, clientKey string, req models.ContactRequest) error {
	if err := s.Validate(&req); err != nil {
		return err
	}

	key, err := submissionKey(clientKey, req)
	if err != nil {
		return err
	}

	// Callers share the call, so it must not end with the first one's
	// request. The relay timeout still bounds it.
	relayCtx := context.WithoutCancel(ctx)
	_, err, _ = s.inflight.Do(key, func() (interface{}, error) {
		return nil, s.relay.RelayContactRequest(relayCtx, req)
	})
	if err != nil {
		return fmt.Errorf("failed to relay contact request: %w", err)
	}
	return nil
}

// stripMarkup removes tags but keeps entities readable, so "R&D" stays "R&D"
func (s *ContactService) stripMarkup(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

func submissionKey(clientKey string, req models.ContactRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode contact request: %w", err)
	}
	sum := sha256.Sum256(body)
	return clientKey + ":" + hex.EncodeToString(sum[:]), nil
}
