package handlers

import (
	"chatpilot_site/middleware"
	"chatpilot_site/templates/pages"
	"chatpilot_site/templates/partials"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Landing renders the marketing page
func (h *Handler) Landing(c echo.Context) error {
	csrfToken := middleware.GetCSRFToken(c)

	scriptURL := ""
	if h.cfg.RazorpayKeyID != "" {
		scriptURL = h.cfg.RazorpayScriptURL
	}

	vm := pages.NewLandingViewModel(csrfToken, scriptURL, h.cfg.TurnstileSiteKey, time.Now().Year())
	return render(c, http.StatusOK, pages.Landing(vm))
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ContactModal opens the "Talk to Business" dialog
func (h *Handler) ContactModal(c echo.Context) error {
	return render(c, http.StatusOK, partials.ContactModal(partials.ContactFormView{
		TurnstileSiteKey: h.cfg.TurnstileSiteKey,
	}))
}

// CheckoutModal opens the "Start Your Journey" dialog
func (h *Handler) CheckoutModal(c echo.Context) error {
	return render(c, http.StatusOK, partials.CheckoutModal(partials.CheckoutFormView{}))
}

// CloseModal empties the modal container
func (h *Handler) CloseModal(c echo.Context) error {
	return render(c, http.StatusOK, partials.ModalClosed())
}
