package services

import (
	"chatpilot_site/config"
	"chatpilot_site/models"
	"context"
	"errors"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
)

// ContactRelay forwards a sales inquiry to whoever records it
type ContactRelay interface {
	RelayContactRequest(ctx context.Context, req models.ContactRequest) error
}

// AppLinkNotifier emails application credentials to a buyer after payment
type AppLinkNotifier interface {
	SendAppLink(ctx context.Context, email, name string) error
}

// AppLinkPayload is the notification endpoint request body
type AppLinkPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MailAPIClient talks to the external mail API. Every call is a single
// attempt bounded by the configured timeout.
type MailAPIClient struct {
	client      *resty.Client
	contactPath string
	appLinkPath string
}

// NewMailAPIClient creates a client for the mail API described by cfg
func NewMailAPIClient(cfg *config.Config) *MailAPIClient {
	timeout := cfg.MailAPITimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.MailAPIBaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &MailAPIClient{
		client:      client,
		contactPath: cfg.ContactPath,
		appLinkPath: cfg.AppLinkPath,
	}
}

// RelayContactRequest posts {name, email, interest} to the contact endpoint
func (m *MailAPIClient) RelayContactRequest(ctx context.Context, req models.ContactRequest) error {
	return m.post(ctx, "contact-us", m.contactPath, req)
}

// SendAppLink posts {email, name} to the notification endpoint
func (m *MailAPIClient) SendAppLink(ctx context.Context, email, name string) error {
	return m.post(ctx, "send-app-link", m.appLinkPath, AppLinkPayload{Email: email, Name: name})
}

func (m *MailAPIClient) post(ctx context.Context, op, path string, body interface{}) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return &NetworkError{Op: op, Timeout: isTimeout(err), Err: err}
	}

	// Response body is not part of the contract
	if !resp.IsSuccess() {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode()}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
