package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mineralhub/mineralhub/internal/db/models"
)

// LocalsUser is the fiber.Locals key holding the authenticated *models.User.
const LocalsUser = "CurrentUser"

const bearerPrefix = "bearer "

// Authenticate resolves an optional bearer token into the current user.
// Requests without a valid token continue anonymously.
func Authenticate(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return c.Next()
		}

		user, err := authService.UserFromToken(c.UserContext(), strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			log.Debug().Err(err).Msg("ignoring bearer token")
			return c.Next()
		}

		c.Locals(LocalsUser, user)

		return c.Next()
	}
}

// CurrentUser returns the authenticated user of the request, nil for anonymous callers.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsUser).(*models.User)
	return user
}

// IsAdmin reports whether the caller is an authenticated admin.
func IsAdmin(c *fiber.Ctx) bool {
	user := CurrentUser(c)
	return user != nil && user.IsAdmin()
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthenticated.",
			})
		}

		return c.Next()
	}
}

// RequireAdmin rejects anonymous requests with 401 and non admins with 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthenticated.",
			})
		}

		if !user.IsAdmin() {
			log.Warn().Uint64("user_id", user.ID).Str("path", c.Path()).Msg("user lacks admin role")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden: You don't have permission to access this resource",
			})
		}

		return c.Next()
	}
}
