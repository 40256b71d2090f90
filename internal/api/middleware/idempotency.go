package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type cachedResponse struct {
	statusCode int
	body       []byte
	storedAt   time.Time
}

// recordingWriter buffers the response so it can be replayed for a repeated
// idempotency key.
type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(p []byte) (int, error) {
	rw.body.Write(p)

	return rw.ResponseWriter.Write(p)
}

// Idempotency replays the stored response for a mutating request whose
// Idempotency-Key was already seen, so client retries cannot double-create
// resources. Entries expire after ttl.
type Idempotency struct {
	mu   sync.Mutex
	seen map[string]cachedResponse
	ttl  time.Duration
	now  func() time.Time
}

func NewIdempotency(ttl time.Duration) *Idempotency {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Idempotency{
		seen: make(map[string]cachedResponse),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (i *Idempotency) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)

			return
		}

		key := r.Header.Get("Idempotency-Key")
		if key == "" {
			next.ServeHTTP(w, r)

			return
		}

		if cached, ok := i.lookup(key); ok {
			LoggerFromContext(r.Context()).Info("Replaying idempotent response", slog.String("idempotency_key", key))

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replay", "true")
			w.WriteHeader(cached.statusCode)
			w.Write(cached.body)

			return
		}

		rw := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		// Only settled outcomes are worth replaying; a 5xx should be retried
		// for real.
		if rw.statusCode < http.StatusInternalServerError {
			i.remember(key, rw.statusCode, rw.body.Bytes())
		}
	})
}

func (i *Idempotency) lookup(key string) (cachedResponse, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	cached, ok := i.seen[key]
	if !ok {
		return cachedResponse{}, false
	}

	if i.now().Sub(cached.storedAt) > i.ttl {
		delete(i.seen, key)

		return cachedResponse{}, false
	}

	return cached, true
}

func (i *Idempotency) remember(key string, statusCode int, body []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for k, v := range i.seen {
		if i.now().Sub(v.storedAt) > i.ttl {
			delete(i.seen, k)
		}
	}

	stored := make([]byte, len(body))
	copy(stored, body)

	i.seen[key] = cachedResponse{statusCode: statusCode, body: stored, storedAt: i.now()}
}
