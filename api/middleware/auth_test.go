package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/JoaquiinAguilar/gaiacare-backend/pkg/auth"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/config"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
)

func middlewareJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "gaiacare-test",
		ExpirationMinutes: 10,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Email:  "user@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := middlewareJWTConfig()
	token, userID := mintTestToken(t, cfg, enums.UserRoleCustomer)

	var seenUser, seenRole string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seenUser != userID.String() {
		t.Fatalf("expected user id %s, got %s", userID, seenUser)
	}
	if seenRole != string(enums.UserRoleCustomer) {
		t.Fatalf("unexpected role %s", seenRole)
	}
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	cfg := middlewareJWTConfig()
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	cfg := middlewareJWTConfig()
	handler := OptionalAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) != "" {
			t.Fatal("anonymous request should not carry a user id")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := middlewareJWTConfig()

	run := func(role enums.UserRole) int {
		token, _ := mintTestToken(t, cfg, role)
		handler := Auth(cfg, nil)(RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := run(enums.UserRoleCustomer); code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", code)
	}
	if code := run(enums.UserRoleAdmin); code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", code)
	}
	if code := run(enums.UserRoleAdminLimited); code != http.StatusOK {
		t.Fatalf("expected 200 for limited admin, got %d", code)
	}
}

func TestCartSessionMintsToken(t *testing.T) {
	var seen string
	handler := CartSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected a minted session id")
	}
	if rec.Header().Get("X-Session-Id") != seen {
		t.Fatal("session id should be echoed in the response header")
	}

	// provided token is reused untouched
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "existing-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "existing-token" {
		t.Fatalf("expected existing token, got %s", seen)
	}
}
