package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func authProbe(secret string) (http.Handler, *string) {
	var got string
	h := AuthMiddleware(secret, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return h, &got
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	h, got := authProbe(testSecret)
	req := httptest.NewRequest("GET", "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "usr-alice"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, 200)
	if *got != "usr-alice" {
		t.Fatalf("expected subject in context, got %q", *got)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	for _, tc := range []struct {
		name   string
		header string
	}{
		{"MissingHeader", ""},
		{"WrongScheme", "Basic abc"},
		{"WrongSecret", "Bearer " + signToken(t, "other-secret", "usr-alice")},
		{"Garbage", "Bearer not.a.token"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := authProbe(testSecret)
			req := httptest.NewRequest("GET", "/v1/feed", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			requireStatus(t, rec, 401)
		})
	}
}

func TestAuthMiddleware_MissingSubject(t *testing.T) {
	token := jwt.New(jwt.SigningMethodHS256)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	h, _ := authProbe(testSecret)
	req := httptest.NewRequest("GET", "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, 401)
}

func TestAuthMiddleware_HealthExempt(t *testing.T) {
	h, _ := authProbe(testSecret)
	req := httptest.NewRequest("GET", "/v1/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, 200)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(discardLogger(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest("GET", "/v1/anything", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, 500)
}
