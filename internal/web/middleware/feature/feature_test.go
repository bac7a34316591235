package feature_test

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
	"github.com/mineralhub/mineralhub/internal/web/middleware/feature"
	"github.com/mineralhub/mineralhub/internal/web/middleware/maintenance"
)

func ptr(s string) *string {
	return &s
}

func TestFeature(t *testing.T) {
	tests := []struct {
		name       string
		stored     map[string]string
		gate       feature.Gate
		accept     string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "enabled passes",
			stored:     map[string]string{"marketplace_enabled": "true"},
			gate:       feature.Gate{SettingKey: "marketplace_enabled", OperationLabel: "marketplace"},
			accept:     fiber.MIMEApplicationJSON,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "disabled json",
			stored:     map[string]string{"marketplace_enabled": "false"},
			gate:       feature.Gate{SettingKey: "marketplace_enabled", OperationLabel: "marketplace"},
			accept:     fiber.MIMEApplicationJSON,
			wantStatus: fiber.StatusForbidden,
			wantCode:   orgsetting.CodeFeatureDisabled,
		},
		{
			name:       "absent key json",
			gate:       feature.Gate{SettingKey: "forum_enabled", OperationLabel: "forum"},
			accept:     fiber.MIMEApplicationJSON,
			wantStatus: fiber.StatusForbidden,
			wantCode:   orgsetting.CodeFeatureDisabled,
		},
		{
			name:       "disabled html is a plain 403",
			stored:     map[string]string{"marketplace_enabled": "0"},
			gate:       feature.Gate{SettingKey: "marketplace_enabled", OperationLabel: "marketplace"},
			accept:     fiber.MIMETextHTML,
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "maintenance gate on blocks even admin paths",
			stored:     map[string]string{orgsetting.KeyMaintenanceMode: "true"},
			gate:       feature.Gate{SettingKey: orgsetting.KeyMaintenanceMode, OperationLabel: "maintenance"},
			accept:     fiber.MIMEApplicationJSON,
			wantStatus: fiber.StatusServiceUnavailable,
			wantCode:   maintenance.Code,
		},
		{
			name:       "maintenance gate off passes",
			stored:     map[string]string{orgsetting.KeyMaintenanceMode: "false"},
			gate:       feature.Gate{SettingKey: orgsetting.KeyMaintenanceMode, OperationLabel: "maintenance"},
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setting.NewMemoryRepository()
			for k, v := range tt.stored {
				repo.Put(models.Setting{Key: k, Value: ptr(v), Type: models.SettingTypeBusiness})
			}

			svc, err := orgsetting.New(repo, nil, orgsetting.Options{})
			require.NoError(t, err)

			app := fiber.New()
			app.Post("/admin/products", feature.New(feature.Config{Checker: svc}, tt.gate), func(c *fiber.Ctx) error {
				return c.SendString("created")
			})

			req := httptest.NewRequest(fiber.MethodPost, "/admin/products", nil)
			if tt.accept != "" {
				req.Header.Set(fiber.HeaderAccept, tt.accept)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.wantCode == "" {
				return
			}

			var got map[string]any
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.wantCode, got["code"])
			assert.Equal(t, false, got["success"])

			if tt.wantCode == orgsetting.CodeFeatureDisabled {
				assert.Equal(t, tt.gate.SettingKey, got["setting"])
				assert.Equal(t, "The "+tt.gate.OperationLabel+" feature is currently disabled", got["message"])
			}
		})
	}
}

func TestRequire(t *testing.T) {
	repo := setting.NewMemoryRepository()
	svc, err := orgsetting.New(repo, nil, orgsetting.Options{})
	require.NoError(t, err)

	cfg := feature.Config{Checker: svc}

	app := fiber.New()
	app.Get("/forum", cfg.Require(orgsetting.KeyForumEnabled, "forum"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/forum", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "The forum feature is currently disabled", string(body))
}
