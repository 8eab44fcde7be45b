package partials

import (
	"chatpilot_site/models"
	"chatpilot_site/templates/components"
	"embed"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var set = components.MustParse(files, "*.html")

// ContactFormView is the contact form with submitted values, per-field
// translation keys and an optional alert key
type ContactFormView struct {
	Values           models.ContactRequest
	Errors           map[string]string
	AlertKey         string
	TurnstileSiteKey string
}

// ContactSentView is the confirmation shown before the modal closes itself
type ContactSentView struct {
	// CloseAfter is an htmx delay such as "3s"
	CloseAfter string
}

type CheckoutFormView struct {
	Email    string
	ErrorKey string
	AlertKey string
}

// CheckoutHandoffView carries the widget options to checkout.js
type CheckoutHandoffView struct {
	CheckoutID string
	Options    *models.WidgetOptions
}

func ContactModal(v ContactFormView) templ.Component {
	return components.Render(set, "contact_modal", v)
}

func ContactForm(v ContactFormView) templ.Component {
	return components.Render(set, "contact_form", v)
}

func ContactSent(v ContactSentView) templ.Component {
	return components.Render(set, "contact_sent", v)
}

func CheckoutModal(v CheckoutFormView) templ.Component {
	return components.Render(set, "checkout_modal", v)
}

func CheckoutForm(v CheckoutFormView) templ.Component {
	return components.Render(set, "checkout_form", v)
}

func CheckoutHandoff(v CheckoutHandoffView) templ.Component {
	return components.Render(set, "checkout_handoff", v)
}

// ModalClosed renders nothing; swapping it into #modal closes any open modal
func ModalClosed() templ.Component {
	return templ.NopComponent
}
