package handlers

import (
	"chatpilot_site/config"
	"chatpilot_site/models"
	"chatpilot_site/services"
	"chatpilot_site/services/i18n"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRelay struct{ mock.Mock }

func (m *mockRelay) RelayContactRequest(ctx context.Context, req models.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendAppLink(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Available() error {
	return m.Called().Error(0)
}

func (m *mockGateway) Configure(ctx context.Context, intent *models.CheckoutIntent) (*models.WidgetOptions, error) {
	args := m.Called(ctx, intent)
	opts, _ := args.Get(0).(*models.WidgetOptions)
	return opts, args.Error(1)
}

func (m *mockGateway) Verify(intent *models.CheckoutIntent, result models.PaymentResult) error {
	return m.Called(intent, result).Error(0)
}

// mockCheckoutFlow replaces the checkout service to inject failures
type mockCheckoutFlow struct {
	mock.Mock
}

func (m *mockCheckoutFlow) Proceed(ctx context.Context, email string) (*models.CheckoutIntent, *models.WidgetOptions, error) {
	args := m.Called(ctx, email)
	intent, _ := args.Get(0).(*models.CheckoutIntent)
	opts, _ := args.Get(1).(*models.WidgetOptions)
	return intent, opts, args.Error(2)
}

func (m *mockCheckoutFlow) CompletePayment(ctx context.Context, id string, result models.PaymentResult) (*models.CheckoutIntent, error) {
	args := m.Called(ctx, id, result)
	intent, _ := args.Get(0).(*models.CheckoutIntent)
	return intent, args.Error(1)
}

func (m *mockCheckoutFlow) RetryNotification(ctx context.Context, id string) (*models.CheckoutIntent, error) {
	args := m.Called(ctx, id)
	intent, _ := args.Get(0).(*models.CheckoutIntent)
	return intent, args.Error(1)
}

func (m *mockCheckoutFlow) ReportWidgetUnavailable(id string) (*models.CheckoutIntent, error) {
	args := m.Called(id)
	intent, _ := args.Get(0).(*models.CheckoutIntent)
	return intent, args.Error(1)
}

// restart drops every in-memory checkout, as a redeploy would
func (f *fixture) restart() {
	f.checkout = services.NewCheckoutService(f.gateway, f.notifier, services.NewCheckoutStore(), time.Hour)
	f.handler = NewHandler(f.cfg, services.NewContactService(f.relay), f.checkout)
}

// fixture wires real services around mocked collaborators
type fixture struct {
	cfg      *config.Config
	relay    *mockRelay
	gateway  *mockGateway
	notifier *mockNotifier
	checkout *services.CheckoutService
	handler  *Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	require.NoError(t, i18n.Load())

	f := &fixture{
		cfg: &config.Config{
			Environment:              "development",
			RazorpayKeyID:            "rzp_test_key",
			RazorpayScriptURL:        "https://checkout.razorpay.com/v1/checkout.js",
			ContactConfirmationDelay: 3 * time.Second,
		},
		relay:    &mockRelay{},
		gateway:  &mockGateway{},
		notifier: &mockNotifier{},
	}
	f.checkout = services.NewCheckoutService(f.gateway, f.notifier, services.NewCheckoutStore(), time.Hour)
	f.handler = NewHandler(f.cfg, services.NewContactService(f.relay), f.checkout)
	return f
}

// widgetReady makes the gateway hand out options for any intent
func (f *fixture) widgetReady() {
	f.gateway.On("Available").Return(nil)
	f.gateway.On("Configure", mock.Anything, mock.Anything).Return(&models.WidgetOptions{
		Key:      f.cfg.RazorpayKeyID,
		Amount:   499900,
		Currency: "INR",
	}, nil)
}

// delegated starts a checkout and returns its id
func (f *fixture) delegated(t *testing.T, email string) string {
	t.Helper()
	intent, _, err := f.checkout.Proceed(context.Background(), email)
	require.NoError(t, err)
	return intent.ID
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}

func setupForm(method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(method, path, body)
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c.Request().Header.Set("HX-Request", "true")
	return c, rec
}
