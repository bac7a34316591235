// Package product serves the marketplace listing endpoints.
package product

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/auth"
	productdb "github.com/mineralhub/mineralhub/internal/db/controller/product"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/validation"
	"github.com/mineralhub/mineralhub/internal/web/handler"
	"github.com/mineralhub/mineralhub/internal/web/response"
)

const (
	// Path is the mount point of the product API.
	Path = handler.APIPrefix + "/products"

	// RouteName prefixes the names of all routes registered here.
	RouteName = "products."

	// MarketplaceLabel names the marketplace feature in denial messages.
	MarketplaceLabel = "marketplace"
)

// CreateInput is the body of POST /.
type CreateInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Mineral     string  `json:"mineral" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
}

// Service is the product handler service.
type Service struct {
	handler.Service
	db        *gorm.DB
	settings  *orgsetting.Service
	validator *validation.XValidator
}

// Handler is the product handler.
var Handler = Service{}

// Init initializes the product handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Features.Checker == nil {
		return handler.ErrNilDeps
	}

	s.db = deps.DB
	s.settings = deps.Settings
	s.validator = validation.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List).Name("index")
		router.Post(handler.RouterRootPath,
			auth.RequireAuthenticated(),
			deps.Features.Require(orgsetting.KeyMarketplaceEnabled, MarketplaceLabel),
			s.Create,
		).Name("store")
	}, RouteName)

	return nil
}

// List handles GET / with mineral, page and per_page filters.
func (s *Service) List(c *fiber.Ctx) error {
	f := productdb.Filter{
		Mineral: c.Query("mineral"),
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", productdb.DefaultPerPage),
	}.Normalize()

	rows, total, err := productdb.List(c.UserContext(), s.db, f)
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")
		return response.ServerError(c)
	}

	return response.Paginated(c, rows, response.NewMeta(total, f.Page, f.PerPage))
}

// Create handles POST /. The marketplace switch is checked again right before the write.
func (s *Service) Create(c *fiber.Ctx) error {
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadBody(c, err)
	}

	if errs := s.validator.Validate(in); errs != nil {
		return response.Invalid(c, errs)
	}

	ctx := c.UserContext()

	if err := s.settings.CheckAccess(ctx, orgsetting.KeyMarketplaceEnabled, MarketplaceLabel); err != nil {
		if fd, ok := orgsetting.AsFeatureDisabled(err); ok {
			return c.Status(fd.StatusCode).JSON(response.Envelope{
				Message: fd.Message,
				Code:    fd.Code,
				Setting: fd.Setting,
			})
		}

		return response.ServerError(c)
	}

	p := models.Product{
		UserID:      auth.CurrentUser(c).ID,
		Title:       in.Title,
		Description: in.Description,
		Mineral:     in.Mineral,
		Price:       in.Price,
		Currency:    strings.ToUpper(in.Currency),
	}

	if err := productdb.Create(ctx, s.db, &p); err != nil {
		log.Error().Err(err).Msg("failed to create product")
		return response.ServerError(c)
	}

	log.Info().Uint64("product_id", p.ID).Uint64("user_id", p.UserID).Msg("product listed")

	return response.Created(c, p, "Product created successfully.")
}
