package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request describes one JSON call against an http.Handler
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
}

// Do serves req on h and returns the recorded response. Requests default to
// GET / with English messages.
func Do(h http.Handler, req Request) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if req.Body != nil {
		_ = json.NewEncoder(&buf).Encode(req.Body)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	path := req.Path
	if path == "" {
		path = "/"
	}

	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept-Language", "en")
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// DecodeResponse parses the standard response envelope
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// AssertErrorResponse checks the status and the envelope's error code
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	resp := DecodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, "expected an error object")
	assert.Equal(t, code, resp.Error.Code)
}
