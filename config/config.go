package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MailDriverAPI relays contact requests and app links to the external mail API
	MailDriverAPI = "api"
	// MailDriverResend delivers both messages directly through Resend
	MailDriverResend = "resend"
)

type Config struct {
	ServerPort  string
	Environment string
	AppURL      string
	// Mail relay
	MailDriver     string
	MailAPIBaseURL string
	MailAPITimeout time.Duration
	ContactPath    string
	AppLinkPath    string
	SalesInbox     string
	// AppLink is the application address mailed to buyers after payment
	AppLink string
	// Email (Resend)
	ResendAPIKey  string
	ResendBaseURL string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Razorpay checkout widget
	RazorpayKeyID      string
	RazorpayKeySecret  string
	RazorpayScriptURL  string
	RazorpayAPIBaseURL string
	// Checkout product
	CheckoutAmount      int64 // minor currency units
	CheckoutCurrency    string
	CheckoutProductName string
	CheckoutDescription string
	CheckoutImageURL    string
	CheckoutThemeColor  string
	CheckoutTTL         time.Duration
	// UI
	ContactConfirmationDelay time.Duration
	// Cloudflare Turnstile
	TurnstileSiteKey   string
	TurnstileSecretKey string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:               getEnv("SERVER_PORT", "8080"),
		Environment:              getEnv("ENVIRONMENT", "development"),
		AppURL:                   getEnv("APP_URL", "http://localhost:8080"),
		MailDriver:               strings.ToLower(getEnv("MAIL_DRIVER", MailDriverAPI)),
		MailAPIBaseURL:           strings.TrimRight(getEnv("MAIL_API_BASE_URL", "http://localhost:3000"), "/"),
		MailAPITimeout:           getEnvDuration("MAIL_API_TIMEOUT", 10*time.Second),
		ContactPath:              getEnv("CONTACT_PATH", "/api/email/contact-us"),
		AppLinkPath:              getEnv("APP_LINK_PATH", "/api/email/send-app-link"),
		SalesInbox:               getEnv("SALES_INBOX", "sales@chatpilot.co.in"),
		AppLink:                  getEnv("APP_LINK_URL", "https://app.chatpilot.co.in"),
		ResendAPIKey:             getEnv("RESEND_API_KEY", ""),
		ResendBaseURL:            getEnv("RESEND_BASE_URL", "https://api.resend.com/"),
		EmailFrom:                getEnv("EMAIL_FROM", "noreply@chatpilot.co.in"),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "ChatPilot"),
		EmailTestMode:            getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		RazorpayKeyID:            getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:        getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayScriptURL:        getEnv("RAZORPAY_SCRIPT_URL", "https://checkout.razorpay.com/v1/checkout.js"),
		RazorpayAPIBaseURL:       getEnv("RAZORPAY_API_BASE_URL", "https://api.razorpay.com"),
		CheckoutAmount:           getEnvInt("CHECKOUT_AMOUNT", 499900),
		CheckoutCurrency:         getEnv("CHECKOUT_CURRENCY", "INR"),
		CheckoutProductName:      getEnv("CHECKOUT_PRODUCT_NAME", "ChatPilot Pro"),
		CheckoutDescription:      getEnv("CHECKOUT_DESCRIPTION", "Growth Automation Suite"),
		CheckoutImageURL:         getEnv("CHECKOUT_IMAGE_URL", "https://chatpilot.co.in/logo.png"),
		CheckoutThemeColor:       getEnv("CHECKOUT_THEME_COLOR", "#FF5500"),
		CheckoutTTL:              getEnvDuration("CHECKOUT_TTL", 2*time.Hour),
		ContactConfirmationDelay: getEnvDuration("CONTACT_CONFIRMATION_DELAY", 3*time.Second),
		TurnstileSiteKey:         getEnv("TURNSTILE_SITE_KEY", ""),
		TurnstileSecretKey:       getEnv("TURNSTILE_SECRET_KEY", ""),
	}
}

// ContactURL returns the absolute URL of the external contact endpoint
func (c *Config) ContactURL() string {
	return c.MailAPIBaseURL + c.ContactPath
}

// AppLinkURL returns the absolute URL of the external notification endpoint
func (c *Config) AppLinkURL() string {
	return c.MailAPIBaseURL + c.AppLinkPath
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("[WARNING] Invalid integer for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go duration strings ("10s", "2h") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("[WARNING] Invalid duration for %s (%q), using %s", key, value, defaultValue)
	return defaultValue
}
