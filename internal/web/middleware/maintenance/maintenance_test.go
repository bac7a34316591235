package maintenance_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineralhub/mineralhub/internal/db/controller/setting"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/middleware/maintenance"
)

func ptr(s string) *string {
	return &s
}

func newApp(t *testing.T, mode string, message *string) *fiber.App {
	t.Helper()

	repo := setting.NewMemoryRepository()
	repo.Put(models.Setting{Key: orgsetting.KeyMaintenanceMode, Value: ptr(mode), Type: models.SettingTypePlatform})

	if message != nil {
		repo.Put(models.Setting{Key: orgsetting.KeyMaintenanceMessage, Value: message, Type: models.SettingTypePlatform})
	}

	svc, err := orgsetting.New(repo, nil, orgsetting.Options{})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(maintenance.New(maintenance.Config{
		Gate: svc,
		IsAdmin: func(c *fiber.Ctx) bool {
			return c.Get("X-Test-Role") == models.RoleAdmin
		},
	}))

	ok := func(c *fiber.Ctx) error { return c.SendString("reached") }
	app.Get("/api/v1/products", ok)
	app.Get("/admin/dashboard", ok)
	app.Get("/api/v1/admin/settings", ok)
	app.Get("/api/v1/reports", ok).Name("admin.reports")
	app.Get(maintenance.StatusPath, ok).Name(maintenance.StatusRouteName)

	return app
}

func TestMaintenance(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		path       string
		headers    map[string]string
		wantStatus int
		wantJSON   bool
	}{
		{name: "off passes", mode: "false", path: "/api/v1/products", wantStatus: fiber.StatusOK},
		{name: "non boolean value is off", mode: "yes", path: "/api/v1/products", wantStatus: fiber.StatusOK},
		{
			name: "on blocks json callers", mode: "true", path: "/api/v1/products",
			headers: map[string]string{"Accept": "application/json"}, wantStatus: fiber.StatusServiceUnavailable, wantJSON: true,
		},
		{
			name: "on blocks xhr callers with json", mode: "1", path: "/api/v1/products",
			headers: map[string]string{"X-Requested-With": "XMLHttpRequest"}, wantStatus: fiber.StatusServiceUnavailable, wantJSON: true,
		},
		{name: "on blocks browsers with html", mode: "true", path: "/api/v1/products", wantStatus: fiber.StatusServiceUnavailable},
		{name: "admin path bypasses html", mode: "true", path: "/admin/dashboard", wantStatus: fiber.StatusOK},
		{
			name: "admin path bypasses json", mode: "true", path: "/admin/dashboard",
			headers: map[string]string{"Accept": "application/json"}, wantStatus: fiber.StatusOK,
		},
		{name: "admin api prefix bypasses", mode: "true", path: "/api/v1/admin/settings", wantStatus: fiber.StatusOK},
		{
			name: "admin caller bypasses", mode: "true", path: "/api/v1/products",
			headers: map[string]string{"X-Test-Role": models.RoleAdmin}, wantStatus: fiber.StatusOK,
		},
		{name: "status route bypasses", mode: "true", path: maintenance.StatusPath, wantStatus: fiber.StatusOK},
		{
			name: "admin route name outside admin paths is blocked", mode: "true", path: "/api/v1/reports",
			headers: map[string]string{"Accept": "application/json"}, wantStatus: fiber.StatusServiceUnavailable, wantJSON: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(t, tt.mode, nil)

			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.wantStatus == fiber.StatusOK {
				assert.Equal(t, "reached", string(body))
				return
			}

			if !tt.wantJSON {
				assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextHTML)
				assert.Contains(t, string(body), maintenance.DefaultMessage)

				return
			}

			var got map[string]any
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, maintenance.Code, got["code"])
			assert.Equal(t, false, got["success"])
			assert.Equal(t, maintenance.DefaultMessage, got["message"])
		})
	}
}

func TestMaintenanceCustomMessage(t *testing.T) {
	app := newApp(t, "true", ptr("Upgrading the vault, back at 14:00"))

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/products", nil)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Upgrading the vault, back at 14:00", got["message"])
	assert.Equal(t, "3600", resp.Header.Get(fiber.HeaderRetryAfter))
}
