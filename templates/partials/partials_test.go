package partials

import (
	"bytes"
	"chatpilot_site/models"
	"chatpilot_site/services/i18n"
	"context"
	"html"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	require.NoError(t, i18n.Load())

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestContactFormPreservesValuesAndErrors(t *testing.T) {
	out := render(t, ContactForm(ContactFormView{
		Values:   models.ContactRequest{Name: "Ana", Email: "ana-at-acme", Interest: "Bots <b>"},
		Errors:   map[string]string{"email": "form.error.email"},
		AlertKey: "contact.failed",
	}))

	assert.Contains(t, out, `value="Ana"`)
	assert.Contains(t, out, `value="ana-at-acme"`)
	assert.Contains(t, out, "Bots &lt;b&gt;</textarea>")
	assert.Contains(t, out, `<p class="field-error">Please enter a valid email</p>`)
	assert.Contains(t, out, "Failed to submit. Please try again.")
	assert.NotContains(t, out, "cf-turnstile")
}

func TestContactFormWithoutErrors(t *testing.T) {
	out := render(t, ContactForm(ContactFormView{TurnstileSiteKey: "site-key"}))

	assert.NotContains(t, out, "field-error")
	assert.NotContains(t, out, "alert-error")
	assert.Contains(t, out, `data-sitekey="site-key"`)
	assert.Contains(t, out, `hx-post="/contact"`)
}

func TestContactSentClosesItself(t *testing.T) {
	out := render(t, ContactSent(ContactSentView{CloseAfter: "3s"}))

	assert.Contains(t, out, `hx-trigger="load delay:3s"`)
	assert.Contains(t, out, `hx-get="/modals/close"`)
	assert.Contains(t, out, "Request Sent!")
}

func TestContactModalWrapsForm(t *testing.T) {
	out := render(t, ContactModal(ContactFormView{}))

	assert.Contains(t, out, `id="contact-modal-body"`)
	assert.Contains(t, out, `aria-labelledby="contact-title"`)
	assert.Contains(t, out, "Talk to Business")
}

func TestCheckoutForm(t *testing.T) {
	out := render(t, CheckoutModal(CheckoutFormView{Email: "a@b.co", ErrorKey: "checkout.email_required"}))

	assert.Contains(t, out, "Start Your Journey")
	assert.Contains(t, out, `value="a@b.co"`)
	assert.Contains(t, out, "Please enter a valid email")
	assert.Contains(t, out, `hx-post="/checkout"`)
}

func TestCheckoutHandoffCarriesOptions(t *testing.T) {
	out := render(t, CheckoutHandoff(CheckoutHandoffView{
		CheckoutID: "chk-1",
		Options: &models.WidgetOptions{
			Key:      "rzp_test",
			Amount:   499900,
			Currency: "INR",
			Prefill:  models.WidgetPrefill{Email: "a@b.co"},
		},
	}))

	assert.Contains(t, out, `data-checkout-id="chk-1"`)
	assert.Contains(t, html.UnescapeString(out), `"key":"rzp_test"`)
	assert.Contains(t, html.UnescapeString(out), `"amount":499900`)
	assert.Contains(t, out, "Razorpay SDK failed to load")
	assert.Contains(t, out, `data-msg-partial="Payment success but failed to send email. Contact support."`)
	assert.NotContains(t, out, "data-msg-error", "a paid checkout never falls back to a generic error")
}

func TestModalClosedRendersNothing(t *testing.T) {
	assert.Empty(t, render(t, ModalClosed()))
}
