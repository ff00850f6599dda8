package middleware

import (
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/gin-gonic/gin"
)

const localeKey = "locale"

// I18n picks the request locale from Accept-Language. Locales the bundle
// has no messages for fall back to fallback.
func I18n(bundle *i18n.Bundle, fallback i18n.Locale) gin.HandlerFunc {
	supported := make(map[i18n.Locale]bool)
	for _, l := range bundle.SupportedLocales() {
		supported[l] = true
	}

	return func(c *gin.Context) {
		locale := i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
		if !supported[locale] {
			locale = fallback
		}
		c.Set(localeKey, locale)
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}

// GetLocale returns the locale set by I18n, English otherwise
func GetLocale(c *gin.Context) i18n.Locale {
	if v, exists := c.Get(localeKey); exists {
		if locale, ok := v.(i18n.Locale); ok {
			return locale
		}
	}
	return i18n.LocaleEn
}
