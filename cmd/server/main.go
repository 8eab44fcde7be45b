package main

import (
	"chatpilot_site/config"
	"chatpilot_site/handlers"
	"chatpilot_site/middleware"
	"chatpilot_site/services"
	"chatpilot_site/services/i18n"
	"chatpilot_site/services/jobs"
	"chatpilot_site/services/razorpay"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	middleware.InitAssetVersions()
	services.InitSecurityMonitor()

	// Outbound collaborators
	relay, notifier := services.NewMailDrivers(cfg)
	if cfg.MailDriver == config.MailDriverAPI {
		log.Printf("[INFO] Mail API endpoints: %s, %s", cfg.ContactURL(), cfg.AppLinkURL())
	}
	gateway := razorpay.NewGateway(cfg)
	if err := gateway.Available(); err != nil {
		log.Printf("[WARNING] Checkout disabled: %v", err)
	}

	contact := services.NewContactService(relay)
	checkout := services.NewCheckoutService(gateway, notifier, services.NewCheckoutStore(), cfg.CheckoutTTL)

	// Start background cleanup job
	cleanup, err := jobs.StartCheckoutCleanup(checkout, jobs.DefaultCleanupSpec)
	if err != nil {
		log.Fatalf("Failed to schedule checkout cleanup: %v", err)
	}
	defer cleanup.Stop()

	e := newServer(cfg, handlers.NewHandler(cfg, contact, checkout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on port %s (mail driver: %s)", cfg.ServerPort, cfg.MailDriver)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARNING] Server shutdown: %v", err)
	}
}

// newServer builds the echo instance with the full middleware stack
func newServer(cfg *config.Config, h *handlers.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(middleware.CSPNonce())
	e.Use(middleware.Locale(cfg))
	e.Use(middleware.CSRF(cfg))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files
	e.Static("/static", middleware.StaticDir)

	h.Register(e)
	return e
}
