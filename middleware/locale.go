package middleware

import (
	"chatpilot_site/config"
	"chatpilot_site/services/i18n"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultLocale = "en"

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. Default ("en")
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.QueryParam("lang")
			if lang != "" {
				if !supported(lang) {
					lang = defaultLocale
				}
				setLanguageCookie(c, lang, cfg.Environment == "production")
			} else if cookie, err := c.Cookie("lang"); err == nil && supported(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}

			c.Set("locale", lang)

			// Update request context for components (standard context)
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// supported accepts loaded locales; before i18n.Load only en and es are known
func supported(lang string) bool {
	if len(i18n.Languages()) == 0 {
		return lang == "en" || lang == "es"
	}
	return i18n.IsSupported(lang)
}

// fromAcceptLanguage picks the first supported primary tag from the header
func fromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if primary != "" && supported(primary) {
			return primary
		}
	}
	return defaultLocale
}

// SetLanguageCookie sets the language cookie
func SetLanguageCookie(c echo.Context, lang string) {
	cfg, ok := c.Get("config").(*config.Config)
	setLanguageCookie(c, lang, ok && cfg.Environment == "production")
}

func setLanguageCookie(c echo.Context, lang string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     "lang",
		Value:    lang,
		Expires:  time.Now().Add(24 * 365 * time.Hour), // 1 year
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	val := c.Get("locale")
	if lang, ok := val.(string); ok {
		return lang
	}
	return defaultLocale
}
