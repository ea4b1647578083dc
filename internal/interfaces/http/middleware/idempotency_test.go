package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newIdempotentEngine(store KeyStore, status *int) *gin.Engine {
	r := gin.New()
	r.Use(Idempotency(store, time.Hour, nil))
	calls := 0
	handler := func(c *gin.Context) {
		calls++
		c.JSON(*status, gin.H{"calls": calls})
	}
	r.POST("/stock/receipts", handler)
	r.POST("/stock/issues", handler)
	r.GET("/stock/balances", handler)
	return r
}

func send(r *gin.Engine, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_RejectsReplay(t *testing.T) {
	store := cache.NewMemoryKeyStore()
	defer store.Close()
	status := http.StatusCreated
	r := newIdempotentEngine(store, &status)

	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/stock/receipts", "abc").Code)

	w := send(r, http.MethodPost, "/stock/receipts", "abc")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_REQUEST", decode(t, w).Error.Code)

	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/stock/issues", "abc").Code, "keys are scoped by path")
	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/stock/receipts", "other").Code)
}

func TestIdempotency_PassThrough(t *testing.T) {
	store := cache.NewMemoryKeyStore()
	defer store.Close()
	status := http.StatusOK
	r := newIdempotentEngine(store, &status)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/stock/receipts", "").Code)
		assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/stock/balances", "abc").Code)
	}
	assert.Equal(t, 0, store.Len())
}

func TestIdempotency_FailedRequestCanBeRetried(t *testing.T) {
	store := cache.NewMemoryKeyStore()
	defer store.Close()
	status := http.StatusUnprocessableEntity
	r := newIdempotentEngine(store, &status)

	assert.Equal(t, http.StatusUnprocessableEntity, send(r, http.MethodPost, "/stock/issues", "k1").Code)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/stock/issues", "k1").Code)
	assert.Equal(t, http.StatusConflict, send(r, http.MethodPost, "/stock/issues", "k1").Code)
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	store := cache.NewMemoryKeyStore()
	defer store.Close()
	status := http.StatusCreated
	r := newIdempotentEngine(store, &status)

	w := send(r, http.MethodPost, "/stock/receipts", strings.Repeat("x", 200))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingStore struct{}

func (failingStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func (failingStore) Release(context.Context, string) error { return nil }

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	status := http.StatusCreated
	r := newIdempotentEngine(failingStore{}, &status)

	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/stock/receipts", "abc").Code)
	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/stock/receipts", "abc").Code)
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	store := cache.NewMemoryKeyStore()
	defer store.Close()

	fail := true
	r := gin.New()
	r.Use(gin.Recovery(), Idempotency(store, time.Hour, nil))
	r.POST("/stock/transfers", func(c *gin.Context) {
		if fail {
			panic("ledger connection lost")
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusInternalServerError, send(r, http.MethodPost, "/stock/transfers", "trf-9").Code)
	assert.Equal(t, 0, store.Len())

	fail = false
	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/stock/transfers", "trf-9").Code)
	assert.Equal(t, http.StatusConflict, send(r, http.MethodPost, "/stock/transfers", "trf-9").Code)
}
