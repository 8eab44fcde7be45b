package handlers

import (
	"chatpilot_site/models"
	"chatpilot_site/services"
	"chatpilot_site/templates/partials"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SubmitContact relays the contact form and answers with the confirmation, or
// with the form again and its values preserved
func (h *Handler) SubmitContact(c echo.Context) error {
	var req models.ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	req.Normalize()

	view := partials.ContactFormView{
		Values:           req,
		TurnstileSiteKey: h.cfg.TurnstileSiteKey,
	}

	// Validate Turnstile CAPTCHA (if configured)
	if h.cfg.TurnstileSecretKey != "" {
		if err := h.verifyCaptcha(c); err != nil {
			c.Logger().Warnf("Turnstile verification failed: %v", err)
			services.Monitor.TrackFailure(services.EventCaptchaFailed, c.RealIP())
			view.AlertKey = "contact.captcha_failed"
			return render(c, http.StatusBadRequest, partials.ContactForm(view))
		}
	}

	err := h.contact.Submit(c.Request().Context(), c.RealIP(), req)
	if err == nil {
		return render(c, http.StatusOK, partials.ContactSent(partials.ContactSentView{
			CloseAfter: htmxDelay(h.cfg.ContactConfirmationDelay),
		}))
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		view.Errors = verr.Fields
		return render(c, http.StatusUnprocessableEntity, partials.ContactForm(view))
	}

	var nerr *services.NetworkError
	if errors.As(err, &nerr) && nerr.Timeout {
		c.Logger().Warnf("Contact request relay timed out: %v", err)
		view.AlertKey = "contact.timeout"
		return render(c, http.StatusGatewayTimeout, partials.ContactForm(view))
	}

	c.Logger().Errorf("Contact request relay failed: %v", err)
	view.AlertKey = "contact.failed"
	return render(c, http.StatusBadGateway, partials.ContactForm(view))
}

func (h *Handler) verifyCaptcha(c echo.Context) error {
	token := c.FormValue("cf-turnstile-response")
	if token == "" {
		return fmt.Errorf("%w: missing token", services.ErrCaptchaFailed)
	}

	ok, err := services.VerifyTurnstileToken(c.Request().Context(), token, h.cfg.TurnstileSecretKey, c.RealIP())
	if err != nil {
		return fmt.Errorf("%w: %v", services.ErrCaptchaFailed, err)
	}
	if !ok {
		return services.ErrCaptchaFailed
	}
	return nil
}

// htmxDelay formats d for hx-trigger, e.g. "3s" or "1500ms"
func htmxDelay(d time.Duration) string {
	if d <= 0 {
		d = 3 * time.Second
	}
	ms := d.Milliseconds()
	if ms%1000 == 0 {
		return fmt.Sprintf("%ds", ms/1000)
	}
	return fmt.Sprintf("%dms", ms)
}
