package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/port/cache"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyBody   = 1 << 20 // 1 MB
)

// idempotencyEntry stores a cached HTTP response.
type idempotencyEntry struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
}

// Idempotency returns middleware that replays the stored response of a
// mutating request sent again with the same Idempotency-Key. Keys are scoped
// to the caller, method, path and query. Only successful writes are stored:
// a rejected request (validation, missing confirmation, server error) leaves
// nothing behind, so the corrected retry runs.
func Idempotency(store cache.Cache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get(headerIdempotencyKey)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := idempotencyKey(access.OwnerFromContext(ctx), r.Method, r.URL.Path, r.URL.RawQuery, header)

			if raw, ok, err := store.Get(ctx, key); err != nil {
				slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
			} else if ok {
				var cached idempotencyEntry
				if err := json.Unmarshal(raw, &cached); err == nil {
					for k, vals := range cached.Headers {
						for _, v := range vals {
							w.Header().Add(k, v)
						}
					}
					w.Header().Set(headerReplayed, "true")
					w.WriteHeader(cached.StatusCode)
					_, _ = w.Write(cached.Body)
					return
				}
				slog.WarnContext(ctx, "idempotency: corrupt cache entry", "key", key)
			}

			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK, body: &bytes.Buffer{}}
			next.ServeHTTP(rec, r)

			if !storable(rec.statusCode) || rec.body.Len() > maxIdempotencyBody {
				return
			}
			data, err := json.Marshal(idempotencyEntry{
				StatusCode: rec.statusCode,
				Headers:    w.Header().Clone(),
				Body:       rec.body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := store.Set(ctx, key, data, ttl); err != nil {
				slog.WarnContext(ctx, "idempotency: failed to store response", "key", key, "error", err)
			}
		})
	}
}

// storable reports whether a response records a completed write.
func storable(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func idempotencyKey(owner, method, path, query, header string) string {
	sum := sha256.Sum256([]byte(owner + "\x00" + method + "\x00" + path + "\x00" + query + "\x00" + header))
	return "idem:" + hex.EncodeToString(sum[:])
}

// responseRecorder wraps http.ResponseWriter to capture the response.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
