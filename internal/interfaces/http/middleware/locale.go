package middleware

import (
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// Locale context keys
const (
	LocaleKey     = "locale"
	TranslatorKey = "translator"
)

// Locale negotiates the response language from Accept-Language and stores
// it, with the translator, on the gin and request contexts.
func Locale(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := tr.Negotiate(c.GetHeader("Accept-Language"))
		c.Set(LocaleKey, tag)
		c.Set(TranslatorKey, tr)
		c.Request = c.Request.WithContext(logger.WithLocale(c.Request.Context(), tag.String()))
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// GetTranslator returns the translator set by Locale, or nil
func GetTranslator(c *gin.Context) *i18n.Translator {
	if v, ok := c.Get(TranslatorKey); ok {
		if tr, ok := v.(*i18n.Translator); ok {
			return tr
		}
	}
	return nil
}

// GetLocale returns the negotiated language. Without the Locale middleware
// it is the translator default, or Bengali.
func GetLocale(c *gin.Context) language.Tag {
	if v, ok := c.Get(LocaleKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	if tr := GetTranslator(c); tr != nil {
		return tr.Default()
	}
	return i18n.Bengali
}

// LocalizeError returns the localized text for an error code, or fallback
func LocalizeError(c *gin.Context, code, fallback string) string {
	tr := GetTranslator(c)
	if tr == nil {
		return fallback
	}
	return tr.Error(GetLocale(c), code, fallback)
}
