// Package validation wraps go-playground/validator and renders failures as per-field message maps.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a json field path to its failure messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge copies other into e with every field prefixed by prefix and a dot.
func (e Errors) Merge(prefix string, other Errors) {
	for field, messages := range other {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}

		e[key] = append(e[key], messages...)
	}
}

// Fields returns the failed field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	return fields
}

// Error is returned by services when input fails validation.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Fields.Fields(), ", ")
}

// NewError builds an *Error with a single field message.
func NewError(field, message string) *Error {
	return &Error{Fields: Errors{field: {message}}}
}

// AsError extracts the field map of a validation *Error.
func AsError(err error) (Errors, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields, true
	}

	return nil, false
}

// XValidator is a validator reporting json field names.
type XValidator struct {
	validate *validator.Validate
}

// New creates a validator that names fields after their json tags.
func New() *XValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	return &XValidator{validate: v}
}

// RegisterValidation adds a custom tag.
func (x *XValidator) RegisterValidation(tag string, fn validator.Func) error {
	return x.validate.RegisterValidation(tag, fn)
}

// Validate checks data and returns nil when it is valid.
func (x *XValidator) Validate(data any) Errors {
	err := x.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"_": {err.Error()}}
	}

	out := Errors{}

	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe), message(fe))
	}

	return out
}

// Check is Validate wrapped into an error.
func (x *XValidator) Check(data any) error {
	if errs := x.Validate(data); errs != nil {
		return &Error{Fields: errs}
	}

	return nil
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}

	return strings.NewReplacer("[", ".", "]", "").Replace(ns)
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, fe.Param())
	case "len":
		return fmt.Sprintf("The %s field must be %s characters.", field, fe.Param())
	case "oneof", "setting_type":
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
