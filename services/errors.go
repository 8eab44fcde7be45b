package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrCollaboratorUnavailable means the payment widget cannot be used, so
	// the checkout must not be delegated
	ErrCollaboratorUnavailable = errors.New("payment widget unavailable")
	ErrCheckoutNotFound        = errors.New("checkout not found")
	ErrInvalidTransition       = errors.New("invalid checkout transition")
	ErrPaymentVerification     = errors.New("payment verification failed")
	ErrCaptchaFailed           = errors.New("captcha verification failed")
)

// ValidationError lists required fields that are missing or malformed, keyed
// by form field name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Has reports whether the given field failed validation
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// NetworkError is a failed or non-2xx outbound call. The form state is kept
// so the user can retry.
type NetworkError struct {
	Op         string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: request timed out", e.Op)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// PartialSuccessError is returned when the payment went through but the app
// link notification could not be delivered. The payment must never be
// retried in response to it.
type PartialSuccessError struct {
	CheckoutID string
	Err        error
}

func (e *PartialSuccessError) Error() string {
	return fmt.Sprintf("checkout %s: payment succeeded but notification failed: %v", e.CheckoutID, e.Err)
}

func (e *PartialSuccessError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNetworkError reports whether err carries a NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsPartialSuccess reports whether err carries a PartialSuccessError
func IsPartialSuccess(err error) bool {
	var pe *PartialSuccessError
	return errors.As(err, &pe)
}
