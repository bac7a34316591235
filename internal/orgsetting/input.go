package orgsetting

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/validation"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// RawValue is a JSON field that may be absent, null or any scalar. Scalars are kept in their
// textual form: booleans become "true"/"false", numbers keep their literal digits.
type RawValue struct {
	Present bool
	Value   *string
}

// Raw returns a present RawValue holding s.
func Raw(s string) RawValue {
	return RawValue{Present: true, Value: &s}
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawValue) UnmarshalJSON(b []byte) error {
	r.Present = true
	r.Value = nil

	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		r.Value = &s

		return nil
	}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case bool:
		s = strconv.FormatBool(t)
	case float64:
		s = string(b)
	default:
		return ErrUnsupportedValue
	}

	r.Value = &s

	return nil
}

// MarshalJSON implements json.Marshaler.
func (r RawValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value)
}

// CreateInput is the payload of a new setting.
type CreateInput struct {
	Key         string             `json:"key" validate:"required,max=191,setting_key"`
	Value       RawValue           `json:"value"`
	Type        models.SettingType `json:"type" validate:"required,setting_type"`
	Description *string            `json:"description" validate:"omitempty,max=1000"`
	IsSensitive bool               `json:"is_sensitive"`
}

// UpdateInput is a partial update. Absent fields keep their stored state.
type UpdateInput struct {
	Value       RawValue            `json:"value"`
	Type        *models.SettingType `json:"type" validate:"omitempty,setting_type"`
	Description *string             `json:"description" validate:"omitempty,max=1000"`
	IsSensitive *bool               `json:"is_sensitive"`
}

// BulkItem is one entry of a bulk update. Items are upserted by key.
type BulkItem struct {
	Key         string             `json:"key" validate:"required,max=191,setting_key"`
	Value       RawValue           `json:"value"`
	Type        models.SettingType `json:"type" validate:"required,setting_type"`
	Description *string            `json:"description" validate:"omitempty,max=1000"`
	IsSensitive bool               `json:"is_sensitive"`
}

// BulkInput wraps the bulk update array.
type BulkInput struct {
	Settings []BulkItem `json:"settings" validate:"required,min=1"`
}

// NewValidator returns a validator that knows the setting specific tags.
func NewValidator() *validation.XValidator {
	v := validation.New()

	_ = v.RegisterValidation("setting_type", func(fl validator.FieldLevel) bool {
		return models.SettingType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("setting_key", func(fl validator.FieldLevel) bool {
		return keyPattern.MatchString(fl.Field().String())
	})

	return v
}
