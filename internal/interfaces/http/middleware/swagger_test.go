package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.SwaggerConfig
		remote string
		want   int
	}{
		{"disabled", config.SwaggerConfig{}, "10.0.0.1:4000", http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, "10.0.0.1:4000", http.StatusOK},
		{"single ip", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.1:4000", http.StatusOK},
		{"cidr", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "10.20.30.40:4000", http.StatusOK},
		{"outside", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "192.168.1.5:4000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/swagger/index.html", SwaggerProtection(tt.cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remote
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
