package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/auth"
)

type claimsKey struct{}

// Auth validates the bearer token and stores the session claims in the
// request context. Error messages mirror the verify endpoint contract.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, "No token provided")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					unauthorized(w, "Token expired")
					return
				}
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the session claims set by Auth, or nil when
// the request did not pass through it.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// BearerToken extracts the token from an Authorization header. A bare
// token without the Bearer prefix is accepted as well.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return header
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
