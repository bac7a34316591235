// Package auth provides local account authentication for the API.
//
// Users register and log in with an email address and an Argon2id hashed password.
// A successful login or registration yields an HS256 signed bearer token.
//
// # Middleware
//
// Authenticate reads an optional "Authorization: Bearer <token>" header and, when the
// token is valid and the user is active, stores the user in the request locals. It never
// rejects a request on its own; RequireAuthenticated and RequireAdmin do that:
//
//	app.Use(auth.Authenticate(authService))
//	admin := app.Group("/api/v1/admin", auth.RequireAdmin())
//
// Authenticate runs before the maintenance middleware so admins can keep working while
// the platform is in maintenance.
package auth
