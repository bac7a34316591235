// Package settings exposes admin CRUD endpoints over organization settings.
package settings

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mineralhub/mineralhub/internal/auth"
	"github.com/mineralhub/mineralhub/internal/db/controller/setting"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/validation"
	"github.com/mineralhub/mineralhub/internal/web/handler"
	"github.com/mineralhub/mineralhub/internal/web/response"
)

const (
	// Path is the mount point of the admin settings API.
	Path = handler.APIPrefix + "/admin/settings"

	// RouteName prefixes the names of all routes registered here.
	RouteName = "admin.settings."

	// Mask replaces sensitive values in list and detail responses.
	Mask = "********"

	msgNotFound = "Setting not found."
)

// Service is the admin settings handler service.
type Service struct {
	handler.Service
	settings *orgsetting.Service
}

// Handler is the admin settings handler.
var Handler = Service{}

// Resource is the JSON form of a setting row.
type Resource struct {
	ID          uint64             `json:"id"`
	Key         string             `json:"key"`
	Value       *string            `json:"value"`
	Type        models.SettingType `json:"type"`
	Description *string            `json:"description"`
	IsSensitive bool               `json:"is_sensitive"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewResource converts a row, masking sensitive values.
func NewResource(s models.Setting) Resource {
	value := s.Value
	if s.IsSensitive && value != nil && *value != "" {
		masked := Mask
		value = &masked
	}

	return Resource{
		ID:          s.ID,
		Key:         s.Key,
		Value:       value,
		Type:        s.Type,
		Description: s.Description,
		IsSensitive: s.IsSensitive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func newResources(rows []models.Setting) []Resource {
	out := make([]Resource, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewResource(row))
	}

	return out
}

// Init initializes the admin settings handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.settings = deps.Settings

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireAdmin())
		router.Get(handler.RouterRootPath, s.List).Name("index")
		router.Get("/grouped", s.Grouped).Name("grouped")
		router.Post("/bulk", s.Bulk).Name("bulk")
		router.Get("/:key/value", s.Value).Name("value")
		router.Get("/:key", s.Show).Name("show")
		router.Post(handler.RouterRootPath, s.Create).Name("store")
		router.Put("/:key", s.Update).Name("update")
		router.Delete("/:key", s.Delete).Name("destroy")
	}, RouteName)

	return nil
}

// List handles GET / with type, is_sensitive, search, page and per_page filters.
func (s *Service) List(c *fiber.Ctx) error {
	f := setting.Filter{
		Type:    models.SettingType(c.Query("type")),
		Search:  c.Query("search"),
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", setting.DefaultPerPage),
	}

	if f.Type != "" && !f.Type.Valid() {
		return response.Invalid(c, validation.Errors{"type": {"The selected type is invalid."}})
	}

	if raw := c.Query("is_sensitive"); raw != "" {
		sensitive, err := strconv.ParseBool(raw)
		if err != nil {
			return response.Invalid(c, validation.Errors{"is_sensitive": {"The is sensitive field must be true or false."}})
		}

		f.IsSensitive = &sensitive
	}

	f = f.Normalize()

	rows, total, err := s.settings.List(c.UserContext(), f)
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")
		return response.ServerError(c)
	}

	return response.Paginated(c, newResources(rows), response.NewMeta(total, f.Page, f.PerPage))
}

// Grouped handles GET /grouped.
func (s *Service) Grouped(c *fiber.Ctx) error {
	grouped, err := s.settings.Grouped(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to group settings")
		return response.ServerError(c)
	}

	out := make(map[models.SettingType][]Resource, len(grouped))
	for t, rows := range grouped {
		out[t] = newResources(rows)
	}

	return response.OK(c, out, "")
}

// Show handles GET /:key.
func (s *Service) Show(c *fiber.Ctx) error {
	row, err := s.settings.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return s.fail(c, err)
	}

	return response.OK(c, NewResource(*row), "")
}

// Value handles GET /:key/value and returns the decrypted, typed value.
func (s *Service) Value(c *fiber.Ctx) error {
	key := c.Params("key")

	row, err := s.settings.Get(c.UserContext(), key)
	if err != nil {
		return s.fail(c, err)
	}

	value, err := s.settings.Value(c.UserContext(), key)
	if err != nil {
		return s.fail(c, err)
	}

	return response.OK(c, fiber.Map{
		"key":          key,
		"value":        value,
		"type":         row.Type,
		"is_sensitive": row.IsSensitive,
	}, "")
}

// Create handles POST /.
func (s *Service) Create(c *fiber.Ctx) error {
	var in orgsetting.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadBody(c, err)
	}

	row, err := s.settings.Create(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}

	return response.Created(c, NewResource(*row), "Setting created successfully.")
}

// Update handles PUT /:key with a partial payload.
func (s *Service) Update(c *fiber.Ctx) error {
	var in orgsetting.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadBody(c, err)
	}

	row, err := s.settings.Update(c.UserContext(), c.Params("key"), in)
	if err != nil {
		return s.fail(c, err)
	}

	return response.OK(c, NewResource(*row), "Setting updated successfully.")
}

// Bulk handles POST /bulk. Items are applied one at a time and are not rolled back
// when a later item fails.
func (s *Service) Bulk(c *fiber.Ctx) error {
	var in orgsetting.BulkInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadBody(c, err)
	}

	applied, err := s.settings.BulkUpdate(c.UserContext(), in)
	if err != nil {
		if errs, ok := validation.AsError(err); ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(response.Envelope{
				Data:    newResources(applied),
				Message: "The given data was invalid.",
				Errors:  errs,
			})
		}

		return s.fail(c, err)
	}

	return response.OK(c, newResources(applied), "Settings updated successfully.")
}

// Delete handles DELETE /:key.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.settings.Delete(c.UserContext(), c.Params("key")); err != nil {
		return s.fail(c, err)
	}

	return response.OK(c, nil, "Setting deleted successfully.")
}

func (s *Service) fail(c *fiber.Ctx, err error) error {
	if errs, ok := validation.AsError(err); ok {
		return response.Invalid(c, errs)
	}

	if errors.Is(err, setting.ErrSettingNotFound) {
		return response.NotFound(c, msgNotFound)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("settings request failed")

	return response.ServerError(c)
}
