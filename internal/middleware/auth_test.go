package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Strob0t/CRMForge/internal/adapter/memory"
	"github.com/Strob0t/CRMForge/internal/config"
	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/domain/user"
	"github.com/Strob0t/CRMForge/internal/middleware"
	"github.com/Strob0t/CRMForge/internal/service"
)

func newTestAuthSvc(t *testing.T) (*service.AuthService, string, string) {
	t.Helper()
	svc := service.NewAuthService(memory.New(access.OwnerPolicy{}), &config.Auth{
		JWTSecret:         "test-secret-key-for-middleware-32chars",
		AccessTokenExpiry: 15 * time.Minute,
		BcryptCost:        4,
	})
	ctx := context.Background()
	u, err := svc.Register(ctx, &user.CreateRequest{Email: "mw@example.com", Name: "MW", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := svc.Login(ctx, user.LoginRequest{Email: "mw@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return svc, u.ID, resp.AccessToken
}

func TestAuth_NoHeader_Returns401(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)
	handler := middleware.Auth(svc)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}
}

func TestAuth_PublicPath_NoAuthRequired(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)
	handler := middleware.Auth(svc)(okHandler())

	for _, path := range []string{"/health", "/metrics", "/api/v1/auth/login", "/api/v1/auth/register"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("path %s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestAuth_InvalidBearerToken_Returns401(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)
	handler := middleware.Auth(svc)(okHandler())

	for _, header := range []string{"Bearer invalid.token.here", "Basic dXNlcjpwYXNz", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", http.NoBody)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuth_ValidToken_BindsOwner(t *testing.T) {
	svc, userID, token := newTestAuthSvc(t)

	var owner string
	var claims *service.AccessClaims
	handler := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner = access.OwnerFromContext(r.Context())
		claims = middleware.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if owner != userID {
		t.Errorf("owner = %q, want %q", owner, userID)
	}
	if claims == nil || claims.Email != "mw@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
