package orgsetting

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// CodeFeatureDisabled is the machine readable code of a FeatureDisabledError.
const CodeFeatureDisabled = "FEATURE_DISABLED"

var (
	// ErrNoEncrypter is returned when a sensitive value must be written without an encrypter.
	ErrNoEncrypter = errors.New("no encrypter configured for sensitive settings")
	// ErrUnsupportedValue is returned when a setting value is an array or object.
	ErrUnsupportedValue = errors.New("setting value must be a string, number, boolean or null")
)

// FeatureDisabledError is returned by CheckAccess when the gating setting is not enabled.
type FeatureDisabledError struct {
	Setting    string
	Message    string
	StatusCode int
	Code       string
}

// NewFeatureDisabledError builds the error for a setting key and a human readable operation label.
func NewFeatureDisabledError(key, label string) *FeatureDisabledError {
	return &FeatureDisabledError{
		Setting:    key,
		Message:    fmt.Sprintf("The %s feature is currently disabled", label),
		StatusCode: fiber.StatusForbidden,
		Code:       CodeFeatureDisabled,
	}
}

func (e *FeatureDisabledError) Error() string {
	return e.Message
}

// AsFeatureDisabled unwraps err into a *FeatureDisabledError.
func AsFeatureDisabled(err error) (*FeatureDisabledError, bool) {
	var fd *FeatureDisabledError
	if errors.As(err, &fd) {
		return fd, true
	}

	return nil, false
}
