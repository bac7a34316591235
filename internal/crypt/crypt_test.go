package crypt_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineralhub/mineralhub/internal/crypt"
)

func TestRoundTrip(t *testing.T) {
	key, err := crypt.GenerateKey()
	require.NoError(t, err)

	c, err := crypt.New(key)
	require.NoError(t, err)

	for _, plain := range []string{"", "s3cret", "päss wörd with spaces"} {
		enc, err := c.Encrypt(plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, enc)

		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, plain, dec)
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	c, err := crypt.New("raw-application-key")
	require.NoError(t, err)

	a, err := c.Encrypt("same")
	require.NoError(t, err)

	b, err := c.Encrypt("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecryptFailures(t *testing.T) {
	c, err := crypt.New("key-one")
	require.NoError(t, err)

	other, err := crypt.New("key-two")
	require.NoError(t, err)

	enc, err := other.Encrypt("secret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "not base64", ciphertext: "%%%"},
		{name: "too short", ciphertext: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "foreign key", ciphertext: enc},
		{name: "plaintext", ciphertext: "plain-text-not-cipher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.ciphertext)
			assert.Error(t, err)
		})
	}
}

func TestNewEmptyKey(t *testing.T) {
	_, err := crypt.New("")
	require.ErrorIs(t, err, crypt.ErrEmptyKey)
}

func TestRandomString(t *testing.T) {
	a, err := crypt.RandomString(18)
	require.NoError(t, err)
	assert.Len(t, a, 24)

	b, err := crypt.RandomString(18)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
