package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/station-console/internal/api/http/handlers"
	"github.com/spec-kit/station-console/internal/authority"
	"github.com/spec-kit/station-console/internal/config"
	"github.com/spec-kit/station-console/internal/loginform"
	"github.com/spec-kit/station-console/internal/nav"
	"github.com/spec-kit/station-console/internal/observability"
	"github.com/spec-kit/station-console/internal/session"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	authoritySrv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			w.WriteHeader(nethttp.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "wrong username or password"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"identifier":   "nurse-1",
				"display_name": "Nurse One",
				"email":        "nurse@station.local",
				"role":         "staff",
			},
		})
	}))
	t.Cleanup(authoritySrv.Close)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	consoleCfg := config.ConsoleConfig{
		LoginPath:          "/sign-in",
		ShellPath:          "/dashboard",
		NavigateDelayMS:    1,
		FeedbackTTLSeconds: 6,
	}

	client := authority.NewClient(config.AuthorityConfig{BaseURL: authoritySrv.URL, TimeoutSeconds: 2}, logger)
	storage := session.NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	store, err := session.NewStore(context.Background(), client, storage, logger)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	menu := nav.DefaultMenu()
	guard := nav.NewGuard(store.Current, consoleCfg.LoginPath, nav.MenuPaths(menu), metrics, logger)
	intent := &nav.Intent{}
	form := loginform.NewController(store, intent.Set, consoleCfg, logger)
	t.Cleanup(form.Close)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("station-console", "test", nil, metrics),
		Session: handlers.NewSessionHandler(form, store, intent, metrics, consoleCfg.LoginPath),
		Shell:   handlers.NewShellHandler(store, menu),
		Guard:   guard,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	payload := map[string]any{}
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &payload)
	return resp, payload
}

func TestLoginValidationFailure(t *testing.T) {
	app := newTestApp(t)

	resp, payload := doJSON(t, app, nethttp.MethodPost, "/api/v1/session", map[string]any{
		"username": "  ",
		"password": "",
	})
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	errObj, _ := payload["error"].(map[string]any)
	details, _ := errObj["details"].(map[string]any)
	if details["username"] == nil || details["password"] == nil {
		t.Fatalf("expected field errors in details, got %v", payload)
	}
}

func TestGuardBlocksProtectedShellBeforeLogin(t *testing.T) {
	app := newTestApp(t)

	resp, payload := doJSON(t, app, nethttp.MethodGet, "/api/v1/shell/dashboard", nil)
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	errObj, _ := payload["error"].(map[string]any)
	details, _ := errObj["details"].(map[string]any)
	if details["redirect"] != "/sign-in" {
		t.Fatalf("expected redirect to /sign-in, got %v", payload)
	}
}

func TestLoginLogoutLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp, payload := doJSON(t, app, nethttp.MethodPost, "/api/v1/session", map[string]any{
		"username": "nurse",
		"password": "secret",
		"remember": true,
	})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("login failed with %d: %v", resp.StatusCode, payload)
	}

	resp, payload = doJSON(t, app, nethttp.MethodGet, "/api/v1/session", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("expected current session, got %d", resp.StatusCode)
	}
	data, _ := payload["data"].(map[string]any)
	if data["identifier"] != "nurse-1" {
		t.Fatalf("unexpected session payload: %v", payload)
	}

	resp, payload = doJSON(t, app, nethttp.MethodGet, "/api/v1/shell/dashboard", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("guard must pass with a session, got %d: %v", resp.StatusCode, payload)
	}

	resp, _ = doJSON(t, app, nethttp.MethodDelete, "/api/v1/session", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("logout failed with %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, nethttp.MethodGet, "/api/v1/shell/dashboard", nil)
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Fatalf("guard must block after logout, got %d", resp.StatusCode)
	}
}

func TestLoginRejectionSurfacesAuthorityMessage(t *testing.T) {
	app := newTestApp(t)

	resp, payload := doJSON(t, app, nethttp.MethodPost, "/api/v1/session", map[string]any{
		"username": "nurse",
		"password": "wrong",
	})
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	errObj, _ := payload["error"].(map[string]any)
	if errObj["message"] != "wrong username or password" {
		t.Fatalf("authority message must surface verbatim, got %v", payload)
	}
}

func TestMenuMarksActiveEntry(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/api/v1/session", map[string]any{
		"username": "nurse",
		"password": "secret",
	})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("login failed with %d", resp.StatusCode)
	}

	resp, payload := doJSON(t, app, nethttp.MethodGet, "/api/v1/shell/menu?path=/patients", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("menu failed with %d", resp.StatusCode)
	}

	data, _ := payload["data"].(map[string]any)
	entries, _ := data["entries"].([]any)
	activeCount := 0
	for _, raw := range entries {
		entry, _ := raw.(map[string]any)
		if entry["active"] == true {
			activeCount++
			if entry["path"] != "/patients" {
				t.Fatalf("wrong active entry: %v", entry)
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active entry, got %d", activeCount)
	}
}
