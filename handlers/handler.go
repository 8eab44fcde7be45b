package handlers

import (
	"bytes"
	"chatpilot_site/config"
	"chatpilot_site/middleware"
	"chatpilot_site/models"
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ContactSubmitter relays validated contact requests
type ContactSubmitter interface {
	Submit(ctx context.Context, clientKey string, req models.ContactRequest) error
}

// CheckoutFlow drives the checkout hand-off state machine
type CheckoutFlow interface {
	Proceed(ctx context.Context, email string) (*models.CheckoutIntent, *models.WidgetOptions, error)
	CompletePayment(ctx context.Context, id string, result models.PaymentResult) (*models.CheckoutIntent, error)
	RetryNotification(ctx context.Context, id string) (*models.CheckoutIntent, error)
	ReportWidgetUnavailable(id string) (*models.CheckoutIntent, error)
}

// Handler serves the landing page, its modals and the checkout callbacks
type Handler struct {
	cfg      *config.Config
	contact  ContactSubmitter
	checkout CheckoutFlow
}

func NewHandler(cfg *config.Config, contact ContactSubmitter, checkout CheckoutFlow) *Handler {
	return &Handler{cfg: cfg, contact: contact, checkout: checkout}
}

// Register mounts every route on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Landing)
	e.GET("/healthz", h.Healthz)

	modals := e.Group("/modals")
	{
		modals.GET("/contact", h.ContactModal)
		modals.GET("/checkout", h.CheckoutModal)
		modals.GET("/close", h.CloseModal)
	}

	e.POST("/contact", h.SubmitContact, middleware.ContactFormRateLimiter.Middleware())
	e.POST("/checkout", h.StartCheckout, middleware.CheckoutRateLimiter.Middleware())

	callbacks := e.Group("/checkout/:id")
	callbacks.Use(middleware.CallbackRateLimiter.Middleware())
	{
		callbacks.POST("/complete", h.CompleteCheckout)
		callbacks.POST("/retry", h.RetryCheckout)
		callbacks.POST("/unavailable", h.CheckoutUnavailable)
	}
}

// render buffers component so a template error still produces a clean 500
func render(c echo.Context, status int, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(c.Request().Context(), &buf); err != nil {
		c.Logger().Errorf("Failed to render component: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render page")
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
