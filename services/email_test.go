package services

import (
	"chatpilot_site/config"
	"chatpilot_site/models"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempEmailTemplates(t *testing.T) string {
	dir := t.TempDir()
	oldDir := emailTemplateDir
	emailTemplateDir = dir
	t.Cleanup(func() { emailTemplateDir = oldDir })
	return dir
}

func TestLoadTemplate(t *testing.T) {
	dir := useTempEmailTemplates(t)

	os.WriteFile(filepath.Join(dir, "test_template.html"), []byte("<html><body>Hello {{.Name}}</body></html>"), 0644)
	os.WriteFile(filepath.Join(dir, "test_template.txt"), []byte("Hello {{.Name}}"), 0644)
	os.WriteFile(filepath.Join(dir, "test_template_es.html"), []byte("<html><body>Hola {{.Name}}</body></html>"), 0644)
	os.WriteFile(filepath.Join(dir, "test_template_es.txt"), []byte("Hola {{.Name}}"), 0644)

	tplData := struct{ Name string }{Name: "Jane"}

	t.Run("Load Base Template", func(t *testing.T) {
		html, text, err := loadTemplate("test_template", "en", tplData)
		assert.NoError(t, err)
		assert.Contains(t, html, "Hello Jane")
		assert.Contains(t, text, "Hello Jane")
	})

	t.Run("Load Localized Template", func(t *testing.T) {
		html, text, err := loadTemplate("test_template", "es", tplData)
		assert.NoError(t, err)
		assert.Contains(t, html, "Hola Jane")
		assert.Contains(t, text, "Hola Jane")
	})

	t.Run("Fallback to Base when Localized Missing", func(t *testing.T) {
		html, _, err := loadTemplate("test_template", "fr", tplData)
		assert.NoError(t, err)
		assert.Contains(t, html, "Hello Jane")
	})

	t.Run("Template Not Found", func(t *testing.T) {
		_, _, err := loadTemplate("non_existent", "en", tplData)
		assert.Error(t, err)
	})
}

func TestBuildContactInquiryEmail(t *testing.T) {
	dir := useTempEmailTemplates(t)
	os.WriteFile(filepath.Join(dir, "contact_inquiry.html"), []byte("<p>{{.Name}} ({{.Email}}): {{.Interest}}</p>"), 0644)
	os.WriteFile(filepath.Join(dir, "contact_inquiry.txt"), []byte("{{.Name}} ({{.Email}}): {{.Interest}}"), 0644)

	email := BuildContactInquiryEmail("sales@example.com", models.ContactRequest{
		Name:     "Jane Doe",
		Email:    "jane@acme.co",
		Interest: "<b>WhatsApp</b> bulk send",
	}, "en")

	assert.Equal(t, []string{"sales@example.com"}, email.To)
	assert.Equal(t, "jane@acme.co", email.ReplyTo)
	assert.Contains(t, email.TextBody, "Jane Doe (jane@acme.co): ")
	assert.Contains(t, email.HTMLBody, "&lt;b&gt;WhatsApp&lt;/b&gt;")
}

func TestBuildAppLinkEmail(t *testing.T) {
	dir := useTempEmailTemplates(t)
	os.WriteFile(filepath.Join(dir, "app_link.html"), []byte(`<a href="{{.AppLink}}">Hi {{.Name}}</a>`), 0644)
	os.WriteFile(filepath.Join(dir, "app_link.txt"), []byte("Hi {{.Name}}: {{.AppLink}}"), 0644)

	email := BuildAppLinkEmail("a@b.com", "a", "https://chatpilot.co.in/app", "es")
	assert.Equal(t, []string{"a@b.com"}, email.To)
	assert.Equal(t, "Hi a: https://chatpilot.co.in/app", email.TextBody)
}

func TestSendEmail_TestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	email := &Email{To: []string{"test@example.com"}, Subject: "Test", HTMLBody: "Body"}

	assert.NoError(t, SendEmail(context.Background(), cfg, email))
}

func TestSendEmail_NoApiKey(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false, ResendAPIKey: ""}
	email := &Email{To: []string{"test@example.com"}, Subject: "Test", HTMLBody: "Body"}

	err := SendEmail(context.Background(), cfg, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY not configured")
}

func TestSendEmail_NoBody(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false, ResendAPIKey: "key"}
	email := &Email{To: []string{"test@example.com"}, Subject: "Test"}

	err := SendEmail(context.Background(), cfg, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email must have either HTMLBody or TextBody")
}

func TestResendMailer_TestMode(t *testing.T) {
	dir := useTempEmailTemplates(t)
	os.WriteFile(filepath.Join(dir, "app_link.html"), []byte("hi"), 0644)
	os.WriteFile(filepath.Join(dir, "app_link.txt"), []byte("hi"), 0644)

	mailer := NewResendMailer(&config.Config{EmailTestMode: true, AppLink: "https://app.chatpilot.co.in"})
	assert.NoError(t, mailer.SendAppLink(context.Background(), "a@b.com", "a"))
}

// fakeResend answers the Resend emails endpoint and records the request body
func fakeResend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *config.Config {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return &config.Config{
		ResendAPIKey:   "re_test",
		ResendBaseURL:  srv.URL,
		EmailFrom:      "noreply@chatpilot.co.in",
		EmailFromName:  "ChatPilot",
		MailAPITimeout: 2 * time.Second,
		AppLink:        "https://app.chatpilot.co.in",
	}
}

func TestSendEmail_HonorsMailTimeout(t *testing.T) {
	cfg := fakeResend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	cfg.MailAPITimeout = 50 * time.Millisecond

	email := &Email{To: []string{"a@b.com"}, Subject: "Hi", TextBody: "Body"}
	err := SendEmail(context.Background(), cfg, email)
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout)
}

func TestResendMailer_SendsConfiguredAppLink(t *testing.T) {
	dir := useTempEmailTemplates(t)
	os.WriteFile(filepath.Join(dir, "app_link.html"), []byte(`<a href="{{.AppLink}}">{{.Name}}</a>`), 0644)
	os.WriteFile(filepath.Join(dir, "app_link.txt"), []byte("{{.Name}}: {{.AppLink}}"), 0644)

	var sent map[string]interface{}
	cfg := fakeResend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"em_1"}`))
	})
	cfg.AppLink = "https://console.chatpilot.co.in/login"

	require.NoError(t, NewResendMailer(cfg).SendAppLink(context.Background(), "buyer@shop.in", "buyer"))
	assert.Equal(t, "buyer: https://console.chatpilot.co.in/login", sent["text"])
}

func TestNewMailDrivers(t *testing.T) {
	relay, notifier := NewMailDrivers(&config.Config{MailDriver: config.MailDriverResend})
	assert.IsType(t, &ResendMailer{}, relay)
	assert.IsType(t, &ResendMailer{}, notifier)

	relay, notifier = NewMailDrivers(&config.Config{MailDriver: config.MailDriverAPI, MailAPIBaseURL: "http://localhost:3000"})
	assert.IsType(t, &MailAPIClient{}, relay)
	assert.IsType(t, &MailAPIClient{}, notifier)
}

func TestTruncate(t *testing.T) {
	s := "Hello World"
	assert.Equal(t, "Hello", truncate(s, 5))
	assert.Equal(t, "Hello World", truncate(s, 20))
}
