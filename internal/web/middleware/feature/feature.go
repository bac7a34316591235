// Package feature gates single routes behind a boolean organization setting.
package feature

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/middleware/maintenance"
	"github.com/mineralhub/mineralhub/internal/web/response"
)

// Checker is the part of the settings service the middleware needs.
type Checker interface {
	IsEnabled(ctx context.Context, key string) bool
	CheckAccess(ctx context.Context, key, label string) error
	String(ctx context.Context, key, def string) string
}

// Gate names the setting guarding a route and the label used in the denial message.
type Gate struct {
	SettingKey     string
	OperationLabel string
}

// Config defines the config for the feature middleware.
type Config struct {
	Checker Checker

	// MaintenanceView is rendered when a gate on maintenance_mode blocks a non JSON caller.
	MaintenanceView string
}

// Require is shorthand for New(cfg, Gate{key, label}).
func (cfg Config) Require(key, label string) fiber.Handler {
	return New(cfg, Gate{SettingKey: key, OperationLabel: label})
}

// New creates a middleware enforcing gate.
func New(cfg Config, gate Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		// maintenance_mode keeps its own check here, without the admin and status bypasses
		if gate.SettingKey == orgsetting.KeyMaintenanceMode {
			if !cfg.Checker.IsEnabled(ctx, orgsetting.KeyMaintenanceMode) {
				return c.Next()
			}

			message := cfg.Checker.String(ctx, orgsetting.KeyMaintenanceMessage, maintenance.DefaultMessage)

			return maintenance.Respond(c, message, cfg.MaintenanceView)
		}

		err := cfg.Checker.CheckAccess(ctx, gate.SettingKey, gate.OperationLabel)
		if err == nil {
			return c.Next()
		}

		fd, ok := orgsetting.AsFeatureDisabled(err)
		if !ok {
			log.Error().Err(err).Str("setting", gate.SettingKey).Msg("feature check failed")
			return response.ServerError(c)
		}

		log.Debug().Str("setting", fd.Setting).Str("path", c.Path()).Msg("feature disabled, request rejected")

		if !response.WantsJSON(c) {
			return fiber.NewError(fiber.StatusForbidden, fd.Message)
		}

		return c.Status(fd.StatusCode).JSON(response.Envelope{
			Message: fd.Message,
			Code:    fd.Code,
			Setting: fd.Setting,
		})
	}
}
