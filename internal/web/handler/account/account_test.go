package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/auth"
	"github.com/mineralhub/mineralhub/internal/config"
	"github.com/mineralhub/mineralhub/internal/crypt"
	"github.com/mineralhub/mineralhub/internal/db/controller/setting"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/handler"
	"github.com/mineralhub/mineralhub/internal/web/handler/account"
	"github.com/mineralhub/mineralhub/internal/web/middleware/feature"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Setting string              `json:"setting"`
	Errors  map[string][]string `json:"errors"`
	Data    struct {
		Token string `json:"token"`
		User  struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Role  struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"user"`
	} `json:"data"`
}

func setup(t *testing.T) (*fiber.App, *orgsetting.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}, &models.Setting{}))
	require.NoError(t, db.Create(&[]models.Role{{Name: models.RoleAdmin}, {Name: models.RoleUser}}).Error)

	enc, err := crypt.New("account-test-key")
	require.NoError(t, err)

	settings, err := orgsetting.New(setting.NewRepository(db), enc, orgsetting.Options{})
	require.NoError(t, err)

	authService := auth.NewService(db, "account-secret", time.Hour)

	app := fiber.New()
	app.Use(auth.Authenticate(authService))

	h := &account.Service{}
	require.NoError(t, h.Init(app, handler.Deps{
		Config:   &config.Config{},
		DB:       db,
		Auth:     authService,
		Settings: settings,
		Features: feature.Config{Checker: settings},
	}))

	return app, settings
}

func post(t *testing.T, app *fiber.App, path string, payload any, token string) (int, envelope) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	if payload == nil {
		req = httptest.NewRequest(http.MethodGet, path, nil)
	}

	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func TestRegistrationGate(t *testing.T) {
	app, settings := setup(t)
	ctx := context.Background()

	off := "false"
	_, err := settings.Upsert(ctx, orgsetting.KeyRegistrationEnabled, &off, models.SettingTypeSecurity, false, nil)
	require.NoError(t, err)

	payload := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "correct horse"}

	status, env := post(t, app, account.Path+"/register", payload, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "The user registration feature is currently disabled", env.Message)
	assert.Equal(t, orgsetting.CodeFeatureDisabled, env.Code)
	assert.Equal(t, orgsetting.KeyRegistrationEnabled, env.Setting)
	assert.False(t, env.Success)

	on := "true"
	_, err = settings.Upsert(ctx, orgsetting.KeyRegistrationEnabled, &on, models.SettingTypeSecurity, false, nil)
	require.NoError(t, err)

	status, env = post(t, app, account.Path+"/register", payload, "")
	require.Equal(t, fiber.StatusCreated, status, env.Errors)
	assert.Equal(t, "ada@example.com", env.Data.User.Email)
	assert.Equal(t, models.RoleUser, env.Data.User.Role.Name)
	assert.NotEmpty(t, env.Data.Token)

	status, env = post(t, app, account.Path+"/register", payload, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "email")
}

func TestRegistrationAbsentSettingIsDisabled(t *testing.T) {
	app, _ := setup(t)

	status, env := post(t, app, account.Path+"/register",
		map[string]string{"name": "Ada", "email": "ada@example.com", "password": "correct horse"}, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, orgsetting.CodeFeatureDisabled, env.Code)
}

func TestLoginAndMe(t *testing.T) {
	app, settings := setup(t)
	ctx := context.Background()

	on := "1"
	_, err := settings.Upsert(ctx, orgsetting.KeyRegistrationEnabled, &on, models.SettingTypeSecurity, false, nil)
	require.NoError(t, err)

	status, _ := post(t, app, account.Path+"/register",
		map[string]string{"name": "Ada", "email": "ada@example.com", "password": "correct horse"}, "")
	require.Equal(t, fiber.StatusCreated, status)

	tests := []struct {
		name     string
		payload  map[string]string
		want     int
		wantErrs string
	}{
		{name: "valid", payload: map[string]string{"email": "ada@example.com", "password": "correct horse"}, want: fiber.StatusOK},
		{name: "wrong password", payload: map[string]string{"email": "ada@example.com", "password": "nope"}, want: fiber.StatusUnauthorized},
		{name: "unknown user", payload: map[string]string{"email": "bob@example.com", "password": "nope"}, want: fiber.StatusUnauthorized},
		{name: "invalid email", payload: map[string]string{"email": "bob", "password": "nope"}, want: fiber.StatusUnprocessableEntity, wantErrs: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := post(t, app, account.Path+"/login", tt.payload, "")
			assert.Equal(t, tt.want, status)

			if tt.wantErrs != "" {
				assert.Contains(t, env.Errors, tt.wantErrs)
			}

			if status != fiber.StatusOK {
				return
			}

			status, me := post(t, app, account.Path+"/me", nil, env.Data.Token)
			assert.Equal(t, fiber.StatusOK, status)
			assert.True(t, me.Success)
		})
	}
}
