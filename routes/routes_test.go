package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campaignhub/analytics"
	"campaignhub/config"
	"campaignhub/seed"
	"campaignhub/state"
	"campaignhub/worker"
)

func newRouter(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig.JWTSecret = "routes-test"
	config.AppConfig.RateLimitMax = 100
	config.AppConfig.RateLimitWindow = 60
	seed.PasswordCost = bcrypt.MinCost

	log := logrus.New()
	log.SetOutput(io.Discard)
	store := state.NewMemoryApp(logrus.NewEntry(log))

	ds, err := seed.Demo()
	require.NoError(t, err)
	_, err = seed.Migrate(context.Background(), store, ds, logrus.NewEntry(log))
	require.NoError(t, err)

	app := fiber.New()
	SetupRoutes(app, Dependencies{
		App:    store,
		Scorer: analytics.NewScorer(),
		Hub:    worker.NewHub(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, status, body)
	return body["access_token"].(string)
}

func TestPublicRoutes(t *testing.T) {
	app := newRouter(t)

	status, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = call(t, app, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Not Found", body["error"])

	status, _ = call(t, app, http.MethodGet, "/api/v1/customers", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoleAccess(t *testing.T) {
	app := newRouter(t)
	viewer := login(t, app, "demo@dico.co.id", "demo123")
	marketing := login(t, app, "marketing@dico.co.id", "marketing123")
	admin := login(t, app, "admin@dico.co.id", "admin123")

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		want   int
	}{
		{"viewer reads customers", viewer, http.MethodGet, "/api/v1/customers", fiber.StatusOK},
		{"viewer cannot delete customers", viewer, http.MethodDelete, "/api/v1/customers/demo-customer-1", fiber.StatusForbidden},
		{"viewer reads summary", viewer, http.MethodGet, "/api/v1/dashboard/summary", fiber.StatusOK},
		{"viewer reads latest tiktok numbers", viewer, http.MethodGet, "/api/v1/analytics/metrics/latest?platform=tiktok&month=12&year=2024", fiber.StatusOK},
		{"viewer cannot save metrics", viewer, http.MethodPost, "/api/v1/analytics/metrics", fiber.StatusForbidden},
		{"viewer cannot migrate", viewer, http.MethodPost, "/api/v1/admin/migrate", fiber.StatusForbidden},
		{"marketing reads active campaigns", marketing, http.MethodGet, "/api/v1/campaigns/active", fiber.StatusOK},
		{"marketing cannot migrate", marketing, http.MethodPost, "/api/v1/admin/migrate", fiber.StatusForbidden},
		{"admin migrates", admin, http.MethodPost, "/api/v1/admin/migrate", fiber.StatusOK},
		{"stream needs upgrade", viewer, http.MethodGet, "/api/v1/insights/stream", fiber.StatusUpgradeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, status, body)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newRouter(t)
	token := login(t, app, "marketing@dico.co.id", "marketing123")

	status, body := call(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	user := body["data"].(map[string]interface{})
	assert.Equal(t, "marketing", user["role"])

	status, _ = call(t, app, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
