package authority

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/station-console/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.AuthorityConfig{BaseURL: baseURL, TimeoutSeconds: 2}, zap.NewNop())
}

func signTestToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "nurse-1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("remote-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestAuthenticateSuccess(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signTestToken(t, expiresAt)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req["username"] != "nurse" || req["password"] != "secret" {
			t.Errorf("credentials not forwarded verbatim: %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"identifier":   "nurse-1",
				"display_name": "Nurse One",
				"email":        "nurse@station.local",
				"role":         "staff",
				"token":        token,
			},
		})
	}))
	defer srv.Close()

	sess, err := newTestClient(srv.URL).Authenticate(context.Background(), "nurse", "secret")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if sess.Identifier != "nurse-1" || sess.DisplayName != "Nurse One" || sess.Role != "staff" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if !sess.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("expected expiry %v from token, got %v", expiresAt, sess.ExpiresAt)
	}
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "AUTH_REJECTED", "message": "wrong username or password"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "nurse", "wrong")

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
	if authErr.Kind != KindInvalidCredentials {
		t.Fatalf("expected invalid-credentials kind, got %s", authErr.Kind)
	}
	if authErr.Message != "wrong username or password" {
		t.Fatalf("authority message must survive verbatim, got %q", authErr.Message)
	}
}

func TestAuthenticateRejectionWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "nurse", "wrong")

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Kind != KindInvalidCredentials {
		t.Fatalf("expected invalid-credentials AuthError, got %v", err)
	}
	if authErr.Message == "" {
		t.Fatal("expected a fallback message")
	}
}

func TestAuthenticateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "nurse", "secret")

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Kind != KindTransport {
		t.Fatalf("expected transport AuthError, got %v", err)
	}
}

func TestAuthenticateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "nurse", "secret")

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Kind != KindTransport {
		t.Fatalf("expected transport AuthError, got %v", err)
	}
}

func TestTokenExpiryUnreadableToken(t *testing.T) {
	if got := tokenExpiry("not-a-jwt"); !got.IsZero() {
		t.Fatalf("expected zero expiry for malformed token, got %v", got)
	}
	if got := tokenExpiry(""); !got.IsZero() {
		t.Fatalf("expected zero expiry for empty token, got %v", got)
	}
}
