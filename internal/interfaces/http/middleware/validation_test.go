package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	Debit decimal.Decimal `json:"debit" binding:"gte=0"`
}

type entryRequest struct {
	Description string          `json:"description" binding:"required,max=10"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Lines       []lineRequest   `json:"lines" binding:"required,min=1,dive"`
}

func bindEntry(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	SetupValidator()

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req entryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestValidation_Valid(t *testing.T) {
	w := bindEntry(t, `{"description":"rent","amount":"12.50","lines":[{"debit":"0"}]}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestValidation_FieldDetails(t *testing.T) {
	w := bindEntry(t, `{"description":"","amount":"0","lines":[{"debit":"-1"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Tag
	}
	assert.Equal(t, map[string]string{
		"description":    "required",
		"amount":         "gt",
		"lines[0].debit": "gte",
	}, fields)
}

func TestValidation_MalformedJSON(t *testing.T) {
	w := bindEntry(t, `{"description":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode(t, w)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "body", resp.Error.Details[0].Field)
}
