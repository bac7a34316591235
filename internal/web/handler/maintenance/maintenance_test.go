package maintenance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/config"
	"github.com/mineralhub/mineralhub/internal/crypt"
	"github.com/mineralhub/mineralhub/internal/db/controller/setting"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/handler"
	"github.com/mineralhub/mineralhub/internal/web/handler/maintenance"
	mw "github.com/mineralhub/mineralhub/internal/web/middleware/maintenance"
)

func TestStatusReachableDuringMaintenance(t *testing.T) {
	enc, err := crypt.New("maintenance-test-key")
	require.NoError(t, err)

	repo := setting.NewMemoryRepository()

	settings, err := orgsetting.New(repo, enc, orgsetting.Options{})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(mw.New(mw.Config{Gate: settings}))

	h := &maintenance.Service{}
	require.NoError(t, h.Init(app, handler.Deps{Config: &config.Config{}, DB: &gorm.DB{}, Settings: settings}))

	app.Get("/api/v1/products", func(c *fiber.Ctx) error { return c.SendString("ok") })

	get := func(path string) (int, maintenance.Status) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body struct {
			Data maintenance.Status `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		return resp.StatusCode, body.Data
	}

	status, st := get(mw.StatusPath)
	assert.Equal(t, fiber.StatusOK, status)
	assert.False(t, st.Maintenance)
	assert.Empty(t, st.Message)

	ctx := context.Background()
	on, msg := "true", "Back at noon"

	_, err = settings.Upsert(ctx, orgsetting.KeyMaintenanceMode, &on, models.SettingTypePlatform, false, nil)
	require.NoError(t, err)

	status, st = get(mw.StatusPath)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, st.Maintenance)
	assert.Equal(t, mw.DefaultMessage, st.Message)

	_, err = settings.Upsert(ctx, orgsetting.KeyMaintenanceMessage, &msg, models.SettingTypePlatform, false, nil)
	require.NoError(t, err)

	_, st = get(mw.StatusPath)
	assert.Equal(t, msg, st.Message)

	status, _ = get("/api/v1/products")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}
