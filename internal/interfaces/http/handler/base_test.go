package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	return tr
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	return testutil.DecodeResponse(t, w)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"conflict by pattern", shared.NewDomainError("WAREHOUSE_HAS_STOCK", "Warehouse still holds stock"), http.StatusConflict, "WAREHOUSE_HAS_STOCK"},
		{"wrapped domain error", errors.Join(errors.New("ctx"), shared.NewDomainError("INVALID_SKU", "bad sku")), http.StatusBadRequest, "INVALID_SKU"},
		{"unexpected error", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			var h BaseHandler
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotContains(t, resp.Error.Message, "pq:")
		})
	}
}

func TestHandleError_LocalizesMessage(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Locale(newTranslator(t)))
	r.GET("/", func(c *gin.Context) {
		var h BaseHandler
		h.HandleError(c, shared.ErrInsufficientStock)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "bn")
	r.ServeHTTP(w, req)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "পর্যাপ্ত মজুদ নেই", resp.Error.Message)
}

func TestBindID(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		var h BaseHandler
		id, ok := h.bindID(c)
		if !ok {
			return
		}
		h.Success(c, id)
	})

	id := uuid.New()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), decodeResponse(t, w).Data)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
}

func TestDateHelpers(t *testing.T) {
	assert.Nil(t, optionalDate(""))
	assert.Nil(t, endOfDay(nil))

	d := optionalDate("2024-07-31")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), *d)

	end := endOfDay(d)
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.Before(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), parseDate("2024-01-02"))
	assert.WithinDuration(t, time.Now().UTC(), parseDate(""), time.Minute)
}

func TestValueHelpers(t *testing.T) {
	assert.Nil(t, optionalUUID(""))
	assert.Nil(t, optionalUUID("nope"))
	id := uuid.New()
	assert.Equal(t, id, *optionalUUID(id.String()))

	yes, no := true, false
	assert.True(t, boolOr(nil, true))
	assert.False(t, boolOr(&no, true))
	assert.True(t, boolOr(&yes, false))
}
