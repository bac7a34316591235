package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/auth"
	"github.com/mineralhub/mineralhub/internal/config"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/middleware/feature"
)

// Deps bundles the collaborators handlers are initialised with.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Auth     *auth.Service
	Settings *orgsetting.Service
	Features feature.Config
}

// Valid reports whether the mandatory collaborators are set.
func (d Deps) Valid() bool {
	return d.Config != nil && d.DB != nil && d.Settings != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps Deps) error
}
