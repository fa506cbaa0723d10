package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/service"
)

// TokenValidator verifies bearer access tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*service.AccessClaims, error)
}

type claimsCtxKey struct{}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":               true,
	"/metrics":              true,
	"/api/v1/auth/login":    true,
	"/api/v1/auth/register": true,
}

// Auth returns middleware that validates the bearer token and binds its
// subject as the owner of every row the request touches.
func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "authorization required")
				return
			}
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "invalid authorization header")
				return
			}

			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := access.WithOwner(r.Context(), claims.Subject)
			ctx = context.WithValue(ctx, claimsCtxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the validated token claims, or nil on public paths.
func ClaimsFromContext(ctx context.Context) *service.AccessClaims {
	c, _ := ctx.Value(claimsCtxKey{}).(*service.AccessClaims)
	return c
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="crmforge"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
