package middleware

import (
	"chatpilot_site/config"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// CSRFHeader is the header checkout.js sends the token in
const CSRFHeader = "X-CSRF-Token"

// CSRF protects the form posts and the widget callbacks. HTMX forms send the
// token as the _csrf field, scripts send it as a header.
func CSRF(cfg *config.Config) echo.MiddlewareFunc {
	return echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "header:" + CSRFHeader + ",form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Environment == "production",
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// GetCSRFToken retrieves the CSRF token from the Echo context
// This token should be included in forms and AJAX requests
func GetCSRFToken(c echo.Context) string {
	token := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey)
	if token == nil {
		return ""
	}
	if tokenStr, ok := token.(string); ok {
		return tokenStr
	}
	return ""
}
