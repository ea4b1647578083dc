package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocale(t *testing.T) {
	tr, err := i18n.New("bn")
	require.NoError(t, err)

	r := gin.New()
	r.Use(Locale(tr))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetLocale(c).String()+"|"+logger.Locale(c.Request.Context()))
	})

	tests := []struct {
		header string
		want   string
	}{
		{"", "bn"},
		{"en-US,en;q=0.9", "en"},
		{"bn-BD", "bn"},
		{"fr-FR", "bn"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want+"|"+tt.want, w.Body.String())
			assert.Equal(t, tt.want, w.Header().Get("Content-Language"))
		})
	}
}

func TestLocalizeError(t *testing.T) {
	tr, err := i18n.New("bn")
	require.NoError(t, err)

	r := gin.New()
	r.Use(Locale(tr))
	r.GET("/", func(c *gin.Context) {
		abortWithError(c, http.StatusForbidden, "FORBIDDEN", "fallback")
	})
	r.GET("/unknown", func(c *gin.Context) {
		abortWithError(c, http.StatusConflict, "SOMETHING_ODD", "Something odd happened")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	r.ServeHTTP(w, req)
	assert.Equal(t, "You do not have permission to perform this action", decode(t, w).Error.Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "এই কাজের অনুমতি নেই", decode(t, w).Error.Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, "Something odd happened", decode(t, w).Error.Message)
}

func TestLocalizeError_NoTranslator(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "fallback", LocalizeError(c, "FORBIDDEN", "fallback"))
	assert.Equal(t, i18n.Bengali, GetLocale(c))
}
