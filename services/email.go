package services

import (
	"bytes"
	"chatpilot_site/config"
	"chatpilot_site/models"
	"chatpilot_site/services/i18n"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// emailTemplateDir is relative to the working directory of the server
var emailTemplateDir = "templates/emails"

// buildEmailWithFallback loads a localized template, falling back to the
// English one when the requested language is missing
func buildEmailWithFallback(templateName string, lang string, tmplData interface{}, toEmail string) *Email {
	htmlBody, textBody, err := loadTemplate(templateName, lang, tmplData)
	if err != nil {
		log.Printf("Error loading %s email template for lang %s: %v", templateName, lang, err)
	}

	if htmlBody == "" && textBody == "" && lang != "en" {
		htmlBody, textBody, err = loadTemplate(templateName, "en", tmplData)
		if err != nil {
			log.Printf("Error loading default 'en' template for %s: %v", templateName, err)
		}
	}

	return &Email{
		To: []string{toEmail},
		// Subject is set by caller
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// Email represents an email message
type Email struct {
	To       []string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// loadTemplate loads an email template from the templates/emails directory
// It attempts to load templateName + "_" + lang + ".html/.txt"
// If not found, it falls back to templateName + ".html/.txt" (which is assumed to be English/Base)
func loadTemplate(templateName string, lang string, data interface{}) (html string, text string, err error) {
	loadAndExec := func(ext string) (string, error) {
		// Try localized first
		path := filepath.Join(emailTemplateDir, fmt.Sprintf("%s_%s%s", templateName, lang, ext))
		content, err := os.ReadFile(path)
		if err != nil {
			path = filepath.Join(emailTemplateDir, templateName+ext)
			content, err = os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("failed to read template %s: %v", path, err)
			}
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return "", fmt.Errorf("failed to parse template %s: %v", path, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("failed to execute template %s: %v", path, err)
		}
		return buf.String(), nil
	}

	htmlContent, err := loadAndExec(".html")
	if err != nil {
		return "", "", err
	}

	textContent, err := loadAndExec(".txt")
	if err != nil {
		return "", "", err
	}

	return htmlContent, textContent, nil
}

// SendEmail sends an email using Resend API
func SendEmail(ctx context.Context, cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("✅ Email logged successfully (development mode - not actually sent)")
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client, err := newResendClient(cfg)
	if err != nil {
		return err
	}

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
		ReplyTo: email.ReplyTo,
	}

	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return &NetworkError{Op: "resend", Timeout: isTimeout(err), Err: err}
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// newResendClient bounds every Resend call by the mail timeout
func newResendClient(cfg *config.Config) (*resend.Client, error) {
	timeout := cfg.MailAPITimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, cfg.ResendAPIKey)
	if cfg.ResendBaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.ResendBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid RESEND_BASE_URL: %w", err)
		}
		client.BaseURL = base
	}
	return client, nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n📧 EMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	if email.ReplyTo != "" {
		log.Printf("Reply-To: %s", email.ReplyTo)
	}
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// ContactInquiryEmailData contains data for the sales inquiry email template
type ContactInquiryEmailData struct {
	Name     string
	Email    string
	Interest string
}

// BuildContactInquiryEmail creates the email the sales inbox receives for a contact request
func BuildContactInquiryEmail(salesInbox string, req models.ContactRequest, lang string) *Email {
	data := ContactInquiryEmailData{
		Name:     req.Name,
		Email:    req.Email,
		Interest: req.Interest,
	}

	email := buildEmailWithFallback("contact_inquiry", lang, data, salesInbox)
	email.ReplyTo = req.Email
	email.Subject = i18n.Translate(lang, "email.subject.contact_inquiry", map[string]interface{}{"name": req.Name})
	return email
}

// AppLinkEmailData contains data for the post-payment credentials email template
type AppLinkEmailData struct {
	Name    string
	AppLink string
}

// BuildAppLinkEmail creates the email delivering the app link to a buyer
func BuildAppLinkEmail(buyerEmail, name, appLink, lang string) *Email {
	data := AppLinkEmailData{
		Name:    name,
		AppLink: appLink,
	}

	email := buildEmailWithFallback("app_link", lang, data, buyerEmail)
	email.Subject = i18n.Translate(lang, "email.subject.app_link")
	return email
}

// ResendMailer delivers contact inquiries and app links directly through
// Resend instead of the external mail API
type ResendMailer struct {
	cfg *config.Config
}

func NewResendMailer(cfg *config.Config) *ResendMailer {
	return &ResendMailer{cfg: cfg}
}

// RelayContactRequest emails the inquiry to the sales inbox
func (m *ResendMailer) RelayContactRequest(ctx context.Context, req models.ContactRequest) error {
	email := BuildContactInquiryEmail(m.cfg.SalesInbox, req, i18n.GetLocale(ctx))
	return SendEmail(ctx, m.cfg, email)
}

// SendAppLink emails the app link to the buyer
func (m *ResendMailer) SendAppLink(ctx context.Context, email, name string) error {
	msg := BuildAppLinkEmail(email, name, m.cfg.AppLink, i18n.GetLocale(ctx))
	return SendEmail(ctx, m.cfg, msg)
}

// NewMailDrivers picks the contact relay and app link notifier for the
// configured mail driver
func NewMailDrivers(cfg *config.Config) (ContactRelay, AppLinkNotifier) {
	if cfg.MailDriver == config.MailDriverResend {
		mailer := NewResendMailer(cfg)
		return mailer, mailer
	}
	client := NewMailAPIClient(cfg)
	return client, client
}
