// Package crypt encrypts sensitive setting values with the application key.
package crypt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the length in bytes of a generated application key.
const KeySize = 32

var (
	// ErrEmptyKey is returned when no application key is configured.
	ErrEmptyKey = errors.New("application key is empty")
	// ErrCiphertextTooShort is returned when the payload cannot hold a nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")

	hkdfSalt = []byte("mineralhub-settings")
	hkdfInfo = []byte("organization-settings/v1")
)

// Encrypter turns plaintext into an opaque string and back.
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AEAD encrypts with XChaCha20-Poly1305. Output is base64(nonce || sealed).
type AEAD struct {
	key []byte
}

// New derives the cipher key from the application key. The application key may be
// base64 encoded (as produced by GenerateKey) or raw text.
func New(appKey string) (*AEAD, error) {
	if appKey == "" {
		return nil, ErrEmptyKey
	}

	secret, err := base64.StdEncoding.DecodeString(appKey)
	if err != nil || len(secret) == 0 {
		secret = []byte(appKey)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, hkdfSalt, hkdfInfo), key); err != nil {
		return nil, pkgerrors.Wrap(err, "derive settings key")
	}

	return &AEAD{key: key}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (a *AEAD) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(a.key)
	if err != nil {
		return "", pkgerrors.Wrap(err, "init cipher")
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", pkgerrors.Wrap(err, "read nonce")
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Tampered or foreign payloads fail.
func (a *AEAD) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", pkgerrors.Wrap(err, "decode ciphertext")
	}

	aead, err := chacha20poly1305.NewX(a.key)
	if err != nil {
		return "", pkgerrors.Wrap(err, "init cipher")
	}

	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrCiphertextTooShort
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]

	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", pkgerrors.Wrap(err, "open ciphertext")
	}

	return string(plain), nil
}

// GenerateKey returns a new random base64 encoded application key.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", pkgerrors.Wrap(err, "generate key")
	}

	return base64.StdEncoding.EncodeToString(key), nil
}

// RandomString returns n random bytes encoded as unpadded url safe base64.
func RandomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", pkgerrors.Wrap(err, "random string")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
