package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency guards state-changing requests carrying an
// Idempotency-Key header. A key seen before is rejected with 409, so a
// double-submitted purchase form cannot create a second ticket.
func Idempotency(redisClient *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := fmt.Sprintf("idempotency:%s", key)
			ctx := r.Context()

			// Key already present: completed or still in flight.
			_, err := redisClient.Get(ctx, idemKey).Result()
			if err == nil {
				w.Header().Set("X-Idempotency-Hit", "true")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error": "request already processed"}`))
				return
			} else if err != redis.Nil {
				// Redis down: let the request through rather than block purchases.
				next.ServeHTTP(w, r)
				return
			}

			// Lock with a short TTL so a crash mid-request cannot hold
			// the key forever.
			acquired, err := redisClient.SetNX(ctx, idemKey, "PROCESSING", 10*time.Second).Result()
			if err != nil || !acquired {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error": "concurrent request"}`))
				return
			}

			next.ServeHTTP(w, r)

			// Mark completed with a long TTL.
			redisClient.Set(ctx, idemKey, "COMPLETED", 24*time.Hour)
		})
	}
}
