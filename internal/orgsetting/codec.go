package orgsetting

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mineralhub/mineralhub/internal/crypt"
	"github.com/mineralhub/mineralhub/internal/db/models"
)

// Kind is the runtime type of an effective setting value.
type Kind int

const (
	// KindNull marks an absent value: no row, a null raw value or a failed decryption.
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// numeric matches decimal notation with optional sign, fraction, exponent and surrounding blanks.
var numeric = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?[ \t\n\r\v\f]*$`)

// Value is the typed effective value of a setting.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the absent value.
func Null() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsTrue reports whether v is exactly the boolean true. Truthy integers or strings are not.
func (v Value) IsTrue() bool { return v.kind == KindBool && v.b }

// Bool returns the boolean and whether v holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer and whether v holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float and whether v holds one.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Str returns the string and whether v holds one.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Interface returns v as a plain Go value, nil for Null.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// MarshalJSON encodes v as the matching native JSON type. JSON has no infinity,
// so ±Inf floats are encoded as the strings "+Inf" and "-Inf".
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindFloat && math.IsInf(v.f, 0) {
		return json.Marshal(strconv.FormatFloat(v.f, 'g', -1, 64))
	}

	return json.Marshal(v.Interface())
}

// Decrypt returns the plaintext raw value of s. The second result is false when the value is
// absent, which includes ciphertext that fails to decrypt. Errors are never returned.
func Decrypt(s *models.Setting, enc crypt.Encrypter) (string, bool) {
	if s == nil || s.Value == nil {
		return "", false
	}

	// empty values are stored without encryption
	if !s.IsSensitive || *s.Value == "" {
		return *s.Value, true
	}

	if enc == nil {
		log.Warn().Str("setting", s.Key).Msg("no encrypter configured for sensitive setting")
		return "", false
	}

	plain, err := enc.Decrypt(*s.Value)
	if err != nil {
		log.Debug().Err(err).Str("setting", s.Key).Msg("failed to decrypt setting, treating as null")
		return "", false
	}

	return plain, true
}

// Infer coerces a plaintext value. Order matters: "1" and "0" are booleans, not integers.
func Infer(raw string) Value {
	switch raw {
	case "true", "1":
		return BoolValue(true)
	case "false", "0":
		return BoolValue(false)
	}

	if !numeric.MatchString(raw) {
		return StringValue(raw)
	}

	trimmed := strings.TrimSpace(raw)

	if strings.Contains(raw, ".") {
		// out of range yields ±Inf together with ErrRange
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return StringValue(raw)
		}

		return FloatValue(f)
	}

	// out of range yields the clamped bound together with ErrRange
	i, err := strconv.ParseInt(trimmed, 10, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return IntValue(i)
	}

	// exponent notation
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return StringValue(raw)
	}

	switch {
	case f >= math.MaxInt64:
		return IntValue(math.MaxInt64)
	case f <= math.MinInt64:
		return IntValue(math.MinInt64)
	default:
		return IntValue(int64(f))
	}
}

// Resolve applies Decrypt then Infer.
func Resolve(s *models.Setting, enc crypt.Encrypter) Value {
	plain, ok := Decrypt(s, enc)
	if !ok {
		return Null()
	}

	return Infer(plain)
}

// Encode prepares a value for storage. Sensitive non-empty values are encrypted, anything
// else is stored unchanged.
func Encode(value *string, sensitive bool, enc crypt.Encrypter) (*string, error) {
	if !sensitive || value == nil || *value == "" {
		return value, nil
	}

	if enc == nil {
		return nil, ErrNoEncrypter
	}

	sealed, err := enc.Encrypt(*value)
	if err != nil {
		return nil, err
	}

	return &sealed, nil
}
