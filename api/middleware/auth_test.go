package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/metapharm/metapharm-backend/pkg/auth"
	"github.com/metapharm/metapharm-backend/pkg/config"
	"github.com/metapharm/metapharm-backend/pkg/enums"
)

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "metapharm",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, pharmacyID *uuid.UUID, role enums.ProfileRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:     uuid.New(),
		PharmacyID: pharmacyID,
		Role:       role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContextFromClaims(t *testing.T) {
	cfg := authTestConfig()
	pharmacyID := uuid.New()
	token := mintToken(t, cfg, &pharmacyID, enums.ProfileRolePharmacist)

	var gotRole, gotPharmacy string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = RoleFromContext(r.Context())
		gotPharmacy = PharmacyIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotRole != string(enums.ProfileRolePharmacist) {
		t.Fatalf("unexpected role %q", gotRole)
	}
	if gotPharmacy != pharmacyID.String() {
		t.Fatalf("unexpected pharmacy id %q", gotPharmacy)
	}
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	cfg := authTestConfig()
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401 got %d", resp.Code)
	}

	otherCfg := authTestConfig()
	otherCfg.Secret = "different-secret"
	token := mintToken(t, otherCfg, nil, enums.ProfileRoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: expected 401 got %d", resp.Code)
	}
}

func TestRequireRoleAndPharmacy(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.ProfileRoleAdmin)))
	resp := httptest.NewRecorder()
	RequireRole(string(enums.ProfileRoleAdmin), nil)(http.HandlerFunc(ok)).ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("admin should pass, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.ProfileRolePharmacist)))
	resp = httptest.NewRecorder()
	RequireRole(string(enums.ProfileRoleAdmin), nil)(http.HandlerFunc(ok)).ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("pharmacist should be rejected from admin route, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	resp = httptest.NewRecorder()
	RequirePharmacy(nil)(http.HandlerFunc(ok)).ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("missing pharmacy should be rejected, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(WithPharmacyID(req.Context(), uuid.NewString()))
	resp = httptest.NewRecorder()
	RequirePharmacy(nil)(http.HandlerFunc(ok)).ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("pharmacy-bound actor should pass, got %d", resp.Code)
	}
}
