// Package account serves registration, login and the current user endpoint.
package account

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mineralhub/mineralhub/internal/auth"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/validation"
	"github.com/mineralhub/mineralhub/internal/web/handler"
	"github.com/mineralhub/mineralhub/internal/web/response"
)

const (
	// Path is the mount point of the account API.
	Path = handler.APIPrefix + "/auth"

	// RouteName prefixes the names of all routes registered here.
	RouteName = "auth."

	// RegistrationLabel names the registration feature in denial messages.
	RegistrationLabel = "user registration"
)

// RegisterInput is the body of POST /register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginInput is the body of POST /login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service is the account handler service.
type Service struct {
	handler.Service
	auth      *auth.Service
	validator *validation.XValidator
}

// Handler is the account handler.
var Handler = Service{}

// Init initializes the account handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Auth == nil || deps.Features.Checker == nil {
		return handler.ErrNilDeps
	}

	s.auth = deps.Auth
	s.validator = validation.New()

	app.Route(Path, func(router fiber.Router) {
		router.Post("/register",
			deps.Features.Require(orgsetting.KeyRegistrationEnabled, RegistrationLabel),
			s.Register,
		).Name("register")
		router.Post("/login", s.Login).Name("login")
		router.Get("/me", auth.RequireAuthenticated(), s.Me).Name("me")
	}, RouteName)

	return nil
}

// Register handles POST /register.
func (s *Service) Register(c *fiber.Ctx) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadBody(c, err)
	}

	if errs := s.validator.Validate(in); errs != nil {
		return response.Invalid(c, errs)
	}

	user, token, err := s.auth.Register(c.UserContext(), in.Name, in.Email, in.Password)
	if errors.Is(err, auth.ErrEmailExists) {
		return response.Invalid(c, validation.Errors{"email": {"The email has already been taken."}})
	}

	if err != nil {
		log.Error().Err(err).Msg("registration failed")
		return response.ServerError(c)
	}

	log.Info().Uint64("user_id", user.ID).Msg("user registered")

	return response.Created(c, fiber.Map{"user": user, "token": token}, "Registration successful.")
}

// Login handles POST /login.
func (s *Service) Login(c *fiber.Ctx) error {
	var in LoginInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadBody(c, err)
	}

	if errs := s.validator.Validate(in); errs != nil {
		return response.Invalid(c, errs)
	}

	user, token, err := s.auth.Login(c.UserContext(), in.Email, in.Password)

	switch {
	case err == nil:
		return response.OK(c, fiber.Map{"user": user, "token": token}, "Login successful.")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return response.Fail(c, fiber.StatusUnauthorized, "These credentials do not match our records.", "")
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return response.Fail(c, fiber.StatusForbidden, "This account is disabled.", "")
	default:
		log.Error().Err(err).Msg("login failed")
		return response.ServerError(c)
	}
}

// Me handles GET /me.
func (s *Service) Me(c *fiber.Ctx) error {
	return response.OK(c, auth.CurrentUser(c), "")
}
