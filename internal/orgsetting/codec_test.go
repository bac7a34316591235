package orgsetting

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineralhub/mineralhub/internal/crypt"
	"github.com/mineralhub/mineralhub/internal/db/models"
)

func strPtr(s string) *string {
	return &s
}

func TestInfer(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{raw: "true", want: BoolValue(true)},
		{raw: "1", want: BoolValue(true)},
		{raw: "false", want: BoolValue(false)},
		{raw: "0", want: BoolValue(false)},
		{raw: "TRUE", want: StringValue("TRUE")},
		{raw: "yes", want: StringValue("yes")},
		{raw: "2", want: IntValue(2)},
		{raw: "-15", want: IntValue(-15)},
		{raw: " 42 ", want: IntValue(42)},
		{raw: "1e3", want: IntValue(1000)},
		{raw: "00", want: IntValue(0)},
		{raw: "3.14", want: FloatValue(3.14)},
		{raw: "1.", want: FloatValue(1)},
		{raw: ".5", want: FloatValue(0.5)},
		{raw: "1.5e2", want: FloatValue(150)},
		{raw: "1.5e400", want: FloatValue(math.Inf(1))},
		{raw: "-1.5e400", want: FloatValue(math.Inf(-1))},
		{raw: "99999999999999999999", want: IntValue(math.MaxInt64)},
		{raw: "-99999999999999999999", want: IntValue(math.MinInt64)},
		{raw: "1e400", want: IntValue(math.MaxInt64)},
		{raw: "-1e400", want: IntValue(math.MinInt64)},
		{raw: "0x1A", want: StringValue("0x1A")},
		{raw: "1,000", want: StringValue("1,000")},
		{raw: "", want: StringValue("")},
		{raw: "Mineral Hub", want: StringValue("Mineral Hub")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.raw))
		})
	}
}

func TestValueTruthIsExact(t *testing.T) {
	assert.True(t, BoolValue(true).IsTrue())
	assert.False(t, BoolValue(false).IsTrue())
	assert.False(t, IntValue(5).IsTrue())
	assert.False(t, StringValue("true ").IsTrue())
	assert.False(t, Null().IsTrue())
}

func TestValueMarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Value{
		"b": BoolValue(true),
		"i": IntValue(7),
		"f": FloatValue(2.5),
		"s": StringValue("x"),
		"n": Null(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":true,"i":7,"f":2.5,"s":"x","n":null}`, string(out))

	out, err = json.Marshal([]Value{FloatValue(math.Inf(1)), FloatValue(math.Inf(-1))})
	require.NoError(t, err)
	assert.JSONEq(t, `["+Inf","-Inf"]`, string(out))
}

func TestDecrypt(t *testing.T) {
	enc, err := crypt.New("codec-test-key")
	require.NoError(t, err)

	sealed, err := enc.Encrypt("hunter2")
	require.NoError(t, err)

	tests := []struct {
		name    string
		setting *models.Setting
		enc     crypt.Encrypter
		want    string
		wantOK  bool
	}{
		{name: "nil setting"},
		{name: "null raw value", setting: &models.Setting{Key: "k"}},
		{name: "plain value", setting: &models.Setting{Key: "k", Value: strPtr("abc")}, want: "abc", wantOK: true},
		{
			name:    "sensitive value",
			setting: &models.Setting{Key: "k", Value: &sealed, IsSensitive: true},
			enc:     enc,
			want:    "hunter2",
			wantOK:  true,
		},
		{
			name:    "corrupt ciphertext is absent",
			setting: &models.Setting{Key: "k", Value: strPtr(sealed[:len(sealed)-4] + "AAAA"), IsSensitive: true},
			enc:     enc,
		},
		{
			name:    "plaintext stored under sensitive flag is absent",
			setting: &models.Setting{Key: "k", Value: strPtr("abc"), IsSensitive: true},
			enc:     enc,
		},
		{
			name:    "empty sensitive value is stored in clear",
			setting: &models.Setting{Key: "k", Value: strPtr(""), IsSensitive: true},
			enc:     enc,
			wantOK:  true,
		},
		{
			name:    "empty sensitive value needs no encrypter",
			setting: &models.Setting{Key: "k", Value: strPtr(""), IsSensitive: true},
			wantOK:  true,
		},
		{
			name:    "missing encrypter is absent",
			setting: &models.Setting{Key: "k", Value: &sealed, IsSensitive: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decrypt(tt.setting, tt.enc)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode(t *testing.T) {
	enc, err := crypt.New("codec-test-key")
	require.NoError(t, err)

	got, err := Encode(nil, true, enc)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Encode(strPtr(""), true, enc)
	require.NoError(t, err)
	assert.Equal(t, "", *got)

	got, err = Encode(strPtr("plain"), false, enc)
	require.NoError(t, err)
	assert.Equal(t, "plain", *got)

	got, err = Encode(strPtr("secret"), true, enc)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", *got)

	plain, err := enc.Decrypt(*got)
	require.NoError(t, err)
	assert.Equal(t, "secret", plain)

	_, err = Encode(strPtr("secret"), true, nil)
	require.ErrorIs(t, err, ErrNoEncrypter)
}

func TestRawValueUnmarshal(t *testing.T) {
	tests := []struct {
		body    string
		present bool
		value   *string
		wantErr bool
	}{
		{body: `{}`},
		{body: `{"value":null}`, present: true},
		{body: `{"value":"abc"}`, present: true, value: strPtr("abc")},
		{body: `{"value":true}`, present: true, value: strPtr("true")},
		{body: `{"value":false}`, present: true, value: strPtr("false")},
		{body: `{"value":12.50}`, present: true, value: strPtr("12.50")},
		{body: `{"value":[1]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var in struct {
				Value RawValue `json:"value"`
			}

			err := json.Unmarshal([]byte(tt.body), &in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.present, in.Value.Present)
			assert.Equal(t, tt.value, in.Value.Value)
		})
	}
}
