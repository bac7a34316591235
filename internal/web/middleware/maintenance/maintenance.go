// Package maintenance blocks traffic with 503 while the maintenance_mode setting is on.
package maintenance

import (
	"context"
	"html"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/response"
)

const (
	// Code is the machine readable code of a maintenance block.
	Code = "MAINTENANCE_MODE"

	// DefaultMessage is used when no maintenance_message setting is stored.
	DefaultMessage = "The platform is currently under maintenance. Please try again later."

	// StatusRouteName names the always reachable status route.
	StatusRouteName = "maintenance.status"
	// StatusPath is the path of the status route. The bypass matches on it.
	StatusPath = "/api/v1/maintenance/status"
)

// Gate is the part of the settings service the middleware reads.
type Gate interface {
	IsEnabled(ctx context.Context, key string) bool
	String(ctx context.Context, key, def string) string
}

// Config defines the config for the maintenance middleware.
type Config struct {
	Gate Gate

	// IsAdmin reports whether the caller holds the admin role.
	IsAdmin func(c *fiber.Ctx) bool

	// AdminPathPrefixes bypass the block. Compared without the leading slash.
	// Default: "admin", "api/v1/admin"
	AdminPathPrefixes []string

	// View is the template rendered for non JSON callers. Empty uses a built-in page.
	View string
}

func (cfg *Config) defaults() {
	if cfg.IsAdmin == nil {
		cfg.IsAdmin = func(*fiber.Ctx) bool { return false }
	}

	if len(cfg.AdminPathPrefixes) == 0 {
		cfg.AdminPathPrefixes = []string{"admin", "api/v1/admin"}
	}
}

// New creates the maintenance middleware.
func New(cfg Config) fiber.Handler {
	cfg.defaults()

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if !cfg.Gate.IsEnabled(ctx, orgsetting.KeyMaintenanceMode) {
			return c.Next()
		}

		if isAdminRequest(c, cfg) || isStatusRequest(c) {
			return c.Next()
		}

		return Respond(c, cfg.Gate.String(ctx, orgsetting.KeyMaintenanceMessage, DefaultMessage), cfg.View)
	}
}

// isAdminRequest matches on the path, not the route name: in a global middleware
// c.Route() is the middleware's own unnamed route.
func isAdminRequest(c *fiber.Ctx, cfg Config) bool {
	path := strings.TrimPrefix(c.Path(), "/")
	for _, prefix := range cfg.AdminPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return cfg.IsAdmin(c)
}

func isStatusRequest(c *fiber.Ctx) bool {
	return c.Path() == StatusPath
}

// Respond writes the 503 maintenance response, JSON or HTML depending on the caller.
func Respond(c *fiber.Ctx, message, view string) error {
	c.Set(fiber.HeaderRetryAfter, "3600")
	c.Status(fiber.StatusServiceUnavailable)

	if response.WantsJSON(c) {
		return c.JSON(response.Envelope{Message: message, Code: Code})
	}

	if view != "" {
		return c.Render(view, fiber.Map{"Message": message})
	}

	c.Type("html", "utf-8")

	return c.SendString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Maintenance</title></head>` +
		`<body><h1>We'll be right back</h1><p>` + html.EscapeString(message) + `</p></body></html>`)
}
