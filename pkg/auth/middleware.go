package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/qr-order/pkg/logger"
)

type claimsKey struct{}

// ClaimsFromContext returns the staff claims stored by Middleware
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// ContextWithClaims stores claims in ctx
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// Middleware rejects requests without a valid token carrying one of roles.
// Browsers cannot set headers on EventSource, so the token may also arrive as ?token=.
func Middleware(v *Validator, roles ...string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				raw = r.URL.Query().Get("token")
			}

			claims, err := v.ValidateToken(raw)
			if err != nil {
				logger.Warn(r.Context()).
					Err(err).
					Str("path", r.URL.Path).
					Msg("Rejected staff request")
				deny(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if len(roles) > 0 && !claims.HasRole(roles...) {
				deny(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireRoles wraps a single handler with a stricter role check
func RequireRoles(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.HasRole(roles...) {
			deny(w, http.StatusForbidden, "Forbidden")
			return
		}
		next(w, r)
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}
