// Package cryptox holds the content codecs used by file-backed models:
// a pass-through codec for plain content and an AES-GCM codec for content
// that is encrypted at rest and decrypted on read.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesify/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrMalformedCiphertext is returned when stored content cannot be decoded.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// Codec converts content between its in-memory form and its stored form.
// Empty content stays empty in both directions.
type Codec interface {
	// Name identifies the codec in logs and the admin listing.
	Name() string
	Encode(plaintext string) (string, error)
	Decode(stored string) (string, error)
}

// PlainCodec stores content unchanged.
type PlainCodec struct{}

func (PlainCodec) Name() string                    { return "plain" }
func (PlainCodec) Encode(s string) (string, error) { return s, nil }
func (PlainCodec) Decode(s string) (string, error) { return s, nil }

// DeriveKey stretches a passphrase into a 32-byte AES-256 key with argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// AESCodec encrypts content with AES-GCM. The stored form is
// base64(nonce || ciphertext), so it fits a TEXT column.
type AESCodec struct {
	aead cipher.AEAD
}

// NewAESCodec builds a codec from a 16, 24 or 32 byte key.
func NewAESCodec(key []byte) (*AESCodec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESCodec{aead: aead}, nil
}

// NewAESCodecFromPassphrase derives the key with DeriveKey and wipes it
// once the cipher is set up.
func NewAESCodecFromPassphrase(passphrase, salt string) (*AESCodec, error) {
	key := DeriveKey([]byte(passphrase), []byte(salt))
	defer common.WipeByteArray(key)
	return NewAESCodec(key)
}

func (c *AESCodec) Name() string { return "aes-gcm" }

// Encode seals plaintext under a fresh random nonce.
func (c *AESCodec) Encode(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := common.GenerateRandByteArray(c.aead.NonceSize())
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode opens a value produced by Encode.
func (c *AESCodec) Decode(stored string) (string, error) {
	if stored == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return "", fmt.Errorf("%w: too short", ErrMalformedCiphertext)
	}
	plaintext, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}
	return string(plaintext), nil
}
