package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingHandler(calls *atomic.Int32, statusCode int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	})
}

func TestIdempotency_ReplaysRepeatedKey(t *testing.T) {
	var calls atomic.Int32

	handler := NewIdempotency(time.Hour).Handler(countingHandler(&calls, http.StatusCreated, `{"id":"ord-123"}`))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	retry := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))
	retry.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(second, retry)

	assert.Equal(t, int32(1), calls.Load(), "retry must not reach the handler")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, `{"id":"ord-123"}`, second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
	assert.Empty(t, first.Header().Get("Idempotent-Replay"))
}

func TestIdempotency_DistinctKeysAreIndependent(t *testing.T) {
	var calls atomic.Int32

	handler := NewIdempotency(time.Hour).Handler(countingHandler(&calls, http.StatusCreated, "{}"))

	for _, key := range []string{"key-1", "key-2"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))
		req.Header.Set("Idempotency-Key", key)
		handler.ServeHTTP(rec, req)
	}

	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_SkipsReadsAndMissingKey(t *testing.T) {
	var calls atomic.Int32

	handler := NewIdempotency(time.Hour).Handler(countingHandler(&calls, http.StatusOK, "{}"))

	get := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	get.Header.Set("Idempotency-Key", "key-1")

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), get)
	}

	post := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), post)
	}

	assert.Equal(t, int32(4), calls.Load())
}

func TestIdempotency_DoesNotRememberServerErrors(t *testing.T) {
	var calls atomic.Int32

	handler := NewIdempotency(time.Hour).Handler(countingHandler(&calls, http.StatusInternalServerError, "{}"))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))
		req.Header.Set("Idempotency-Key", "key-1")
		handler.ServeHTTP(rec, req)
	}

	assert.Equal(t, int32(2), calls.Load(), "a 5xx must be retried for real")
}

func TestIdempotency_EntriesExpire(t *testing.T) {
	var calls atomic.Int32

	idem := NewIdempotency(time.Minute)

	current := time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC)
	idem.now = func() time.Time { return current }

	handler := idem.Handler(countingHandler(&calls, http.StatusCreated, "{}"))

	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))
		r.Header.Set("Idempotency-Key", "key-1")

		return r
	}

	handler.ServeHTTP(httptest.NewRecorder(), req())
	require.Equal(t, int32(1), calls.Load())

	current = current.Add(2 * time.Minute)

	handler.ServeHTTP(httptest.NewRecorder(), req())
	assert.Equal(t, int32(2), calls.Load(), "an expired key is treated as new")
}
