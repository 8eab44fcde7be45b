package handlers

import (
	"chatpilot_site/models"
	"chatpilot_site/services"
	"chatpilot_site/services/i18n"
	"chatpilot_site/templates/partials"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// StartCheckout validates the email and hands the checkout to the widget.
// On success the hand-off element replaces the modal, closing it.
func (h *Handler) StartCheckout(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	view := partials.CheckoutFormView{Email: email}

	intent, opts, err := h.checkout.Proceed(c.Request().Context(), email)
	if err != nil {
		switch {
		case services.IsValidationError(err):
			view.ErrorKey = "checkout.email_required"
			return render(c, http.StatusUnprocessableEntity, partials.CheckoutForm(view))
		case errors.Is(err, services.ErrCollaboratorUnavailable):
			c.Logger().Warnf("Payment widget unavailable: %v", err)
			view.AlertKey = "checkout.unavailable"
			return render(c, http.StatusServiceUnavailable, partials.CheckoutForm(view))
		default:
			c.Logger().Errorf("Failed to start checkout: %v", err)
			view.AlertKey = "errors.generic"
			return render(c, http.StatusInternalServerError, partials.CheckoutForm(view))
		}
	}

	opts.Callbacks = models.WidgetCallbacks{
		Complete:    checkoutURL(intent.ID, "complete"),
		Unavailable: checkoutURL(intent.ID, "unavailable"),
	}

	if isHTMX(c) {
		c.Response().Header().Set("HX-Retarget", "#modal")
		c.Response().Header().Set("HX-Reswap", "innerHTML")
	}
	return render(c, http.StatusOK, partials.CheckoutHandoff(partials.CheckoutHandoffView{
		CheckoutID: intent.ID,
		Options:    opts,
	}))
}

// CompleteCheckout receives the widget success callback
func (h *Handler) CompleteCheckout(c echo.Context) error {
	id := c.Param("id")

	var result models.PaymentResult
	if err := c.Bind(&result); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payment result")
	}

	_, err := h.checkout.CompletePayment(c.Request().Context(), id, result)
	return h.paidOutcome(c, id, result.PaymentID, err)
}

// RetryCheckout re-sends the app link after a partial success
func (h *Handler) RetryCheckout(c echo.Context) error {
	id := c.Param("id")
	_, err := h.checkout.RetryNotification(c.Request().Context(), id)
	return h.paidOutcome(c, id, "", err)
}

// CheckoutUnavailable records that the widget script never loaded
func (h *Handler) CheckoutUnavailable(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.checkout.ReportWidgetUnavailable(id); err != nil {
		return h.outcome(c, id, err)
	}
	return c.JSON(http.StatusOK, models.CheckoutOutcome{
		Outcome: models.OutcomeFailure,
		Message: i18n.T(c.Request().Context(), "checkout.unavailable"),
	})
}

// paidOutcome answers a callback sent after the widget reported a payment.
// When the checkout is gone (expired, restarted server) or the server fails,
// the money may still have moved, so the user is sent to support instead of
// being told to start again.
func (h *Handler) paidOutcome(c echo.Context, id, paymentID string, err error) error {
	if err == nil || services.IsPartialSuccess(err) ||
		errors.Is(err, services.ErrInvalidTransition) ||
		errors.Is(err, services.ErrPaymentVerification) {
		return h.outcome(c, id, err)
	}

	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrCheckoutNotFound) {
		status = http.StatusNotFound
	}
	c.Logger().Errorf("Checkout %s: payment %q reported but not completed: %v", id, paymentID, err)

	return c.JSON(status, models.CheckoutOutcome{
		Outcome: models.OutcomePartialSuccess,
		Message: i18n.T(c.Request().Context(), "checkout.partial"),
	})
}

// outcome maps a checkout result onto the JSON the widget script alerts
func (h *Handler) outcome(c echo.Context, id string, err error) error {
	ctx := c.Request().Context()

	status := http.StatusOK
	out := models.CheckoutOutcome{Outcome: models.OutcomeFailure}

	switch {
	case err == nil:
		out.Outcome = models.OutcomeSuccess
		out.Message = i18n.T(ctx, "checkout.success")
	case services.IsPartialSuccess(err):
		out.Outcome = models.OutcomePartialSuccess
		out.Message = i18n.T(ctx, "checkout.partial")
		out.RetryURL = checkoutURL(id, "retry")
	case errors.Is(err, services.ErrCheckoutNotFound):
		status = http.StatusNotFound
		out.Message = i18n.T(ctx, "checkout.not_found")
	case errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
		out.Message = i18n.T(ctx, "checkout.already_processed")
	case errors.Is(err, services.ErrPaymentVerification):
		services.Monitor.TrackFailure(services.EventPaymentVerificationFailed, c.RealIP())
		status = http.StatusBadRequest
		out.Message = i18n.T(ctx, "checkout.verification_failed")
	default:
		c.Logger().Errorf("Checkout %s failed: %v", id, err)
		status = http.StatusInternalServerError
		out.Message = i18n.T(ctx, "errors.generic")
	}

	return c.JSON(status, out)
}

func checkoutURL(id, action string) string {
	return "/checkout/" + id + "/" + action
}
