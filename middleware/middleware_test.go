package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignhub/config"
	"campaignhub/models"
	"campaignhub/state"
	"campaignhub/utils"
)

func newTestApp(t *testing.T) (*state.App, *models.Credential) {
	t.Helper()
	config.AppConfig.JWTSecret = "middleware-test"

	app := state.NewMemoryApp(logrus.NewEntry(logrus.New()))
	ctx := context.Background()

	cred, err := app.Credentials.Create(ctx, &models.Credential{Email: "viewer@dico.co.id", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = app.Users.Create(ctx, &models.UserProfile{
		ID:    cred.ID,
		Email: cred.Email,
		Role:  models.RoleViewer,
	})
	require.NoError(t, err)
	return app, cred
}

func protectedServer(app *state.App, perm models.Permission) *fiber.App {
	srv := fiber.New()
	srv.Get("/private", Protected(app), RequirePermission(perm), func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.UserProfile)
		return c.SendString(user.Email)
	})
	return srv
}

func TestProtected(t *testing.T) {
	app, cred := newTestApp(t)
	access, _, err := utils.GenerateJWTToken(cred, models.RoleViewer)
	require.NoError(t, err)

	srv := protectedServer(app, models.PermViewCustomers)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"bad format", "Token " + access, fiber.StatusUnauthorized},
		{"garbage token", "Bearer nope", fiber.StatusUnauthorized},
		{"valid token", "Bearer " + access, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := srv.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestProtectedRejectsRevokedToken(t *testing.T) {
	app, cred := newTestApp(t)
	access, _, err := utils.GenerateJWTToken(cred, models.RoleViewer)
	require.NoError(t, err)

	revoked := *cred
	revoked.TokenVersion++
	_, err = app.Credentials.Update(context.Background(), &revoked)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := protectedServer(app, models.PermViewCustomers).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePermission(t *testing.T) {
	app, cred := newTestApp(t)
	access, _, err := utils.GenerateJWTToken(cred, models.RoleViewer)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := protectedServer(app, models.PermManageCustomers).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv := fiber.New()
	srv.Use(CORS(DefaultCORSConfig("https://console.dico.co.id")))
	srv.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://console.dico.co.id")
	resp, err := srv.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://console.dico.co.id", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", resp.Header.Get("Access-Control-Max-Age"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = srv.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	srv = fiber.New()
	srv.Use(CORS(DefaultCORSConfig("https://*.dico.co.id")))
	srv.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://marketing.dico.co.id")
	resp, err = srv.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "https://marketing.dico.co.id", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestAuthRateLimiter(t *testing.T) {
	config.AppConfig.RateLimitMax = 2
	config.AppConfig.RateLimitWindow = 60

	srv := fiber.New()
	srv.Post("/auth/login", AuthRateLimiter(nil), func(c *fiber.Ctx) error { return c.SendString("ok") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := srv.Test(httptest.NewRequest("POST", "/auth/login", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, fiber.StatusTooManyRequests}, codes)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := fiber.New()
	srv.Use(Metrics())
	srv.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	srv.Get("/metrics", MetricsHandler())

	_, err := srv.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)

	resp, err := srv.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `campaignhub_http_requests_total{method="GET",route="/ping",status="200"}`)
}
