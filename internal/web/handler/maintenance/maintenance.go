// Package maintenance serves the maintenance status route, reachable during maintenance.
package maintenance

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/handler"
	mw "github.com/mineralhub/mineralhub/internal/web/middleware/maintenance"
	"github.com/mineralhub/mineralhub/internal/web/response"
)

// Status is the data of the status response.
type Status struct {
	Maintenance bool   `json:"maintenance"`
	Message     string `json:"message"`
}

// Service is the maintenance status handler service.
type Service struct {
	handler.Service
	settings *orgsetting.Service
}

// Handler is the maintenance status handler.
var Handler = Service{}

// Init initializes the maintenance status handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.settings = deps.Settings

	app.Get(mw.StatusPath, s.Get).Name(mw.StatusRouteName)

	return nil
}

// Get reports whether maintenance mode is on.
func (s *Service) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()

	on := s.settings.IsEnabled(ctx, orgsetting.KeyMaintenanceMode)

	message := ""
	if on {
		message = s.settings.String(ctx, orgsetting.KeyMaintenanceMessage, mw.DefaultMessage)
	}

	return response.OK(c, Status{Maintenance: on, Message: message}, "")
}
