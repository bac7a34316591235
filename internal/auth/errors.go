package auth

import "errors"

var (
	// ErrEmailExists is returned when attempting to create a user with an email that already exists.
	ErrEmailExists = errors.New("user with email already exists")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleNotFound is returned when the role to assign does not exist.
	ErrRoleNotFound = errors.New("role not found")

	// ErrInvalidToken indicates a token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a token has expired.
	ErrExpiredToken = errors.New("token expired")

	// ErrEmptySecret is returned when tokens are signed without a secret.
	ErrEmptySecret = errors.New("jwt secret is empty")
)
