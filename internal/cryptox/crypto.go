// Package cryptox implements the reversible "encrypted" payload transform:
// AES-128-CBC with PKCS#7 padding under a key derived with PBKDF2-HMAC-SHA256
// from a fixed passphrase and salt, and a fixed IV, base64-encoded.
//
// The parameters are shared by every installation so that any copy of the
// app can decrypt codes produced by any other. This is obfuscation against
// casual readers, not confidentiality: anyone holding the app can decrypt.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters shared with every other installation.
const (
	DefaultPassphrase = "SuperSecretPassword"
	DefaultSalt       = "SharedSalt1234"
	DefaultIV         = "1234567890abcdef"
	Iterations        = 10000
	KeyLen            = 16
)

var (
	ErrDecrypt            = errors.New("decrypt failed")
	ErrMalformedBase64    = fmt.Errorf("%w: malformed base64", ErrDecrypt)
	ErrBlockSize          = fmt.Errorf("%w: ciphertext is not a positive multiple of the block size", ErrDecrypt)
	ErrBadPadding         = fmt.Errorf("%w: bad padding", ErrDecrypt)
	ErrMalformedPlaintext = fmt.Errorf("%w: plaintext is not valid UTF-8", ErrDecrypt)
)

// Box encrypts and decrypts payload strings. The zero value is not usable;
// use New or the package-level functions.
type Box struct {
	key []byte
	iv  []byte
}

// New derives a Box key from passphrase and salt. iv must be 16 bytes.
func New(passphrase, salt, iv string) (*Box, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	key := pbkdf2.Key([]byte(passphrase), []byte(salt), Iterations, KeyLen, sha256.New)
	return &Box{key: key, iv: []byte(iv)}, nil
}

var defaultBox = sync.OnceValue(func() *Box {
	b, err := New(DefaultPassphrase, DefaultSalt, DefaultIV)
	if err != nil {
		panic(err)
	}
	return b
})

// Encrypt returns the base64 encoding of the AES-CBC ciphertext of the
// UTF-8 bytes of plaintext. Output is deterministic for a given Box.
func (b *Box) Encrypt(plaintext string) string {
	block, err := aes.NewCipher(b.key)
	if err != nil {
		// key length is fixed at construction
		panic(err)
	}
	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, b.iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt reverses Encrypt. Whitespace inside the base64 text is ignored.
// Every failure wraps ErrDecrypt.
func (b *Box) Decrypt(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stripSpace(s))
	if err != nil {
		return "", ErrMalformedBase64
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", ErrBlockSize
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		panic(err)
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, b.iv).CryptBlocks(out, raw)

	plain, ok := unpad(out, aes.BlockSize)
	if !ok {
		return "", ErrBadPadding
	}
	if !utf8.Valid(plain) {
		return "", ErrMalformedPlaintext
	}
	return string(plain), nil
}

// TryDecrypt returns the plaintext and true if s decrypts cleanly.
func (b *Box) TryDecrypt(s string) (string, bool) {
	p, err := b.Decrypt(s)
	if err != nil {
		return "", false
	}
	return p, true
}

// IsEncrypted reports whether s decrypts to something other than itself.
func (b *Box) IsEncrypted(s string) bool {
	p, ok := b.TryDecrypt(s)
	return ok && p != s
}

// Encrypt uses the shared default parameters.
func Encrypt(plaintext string) string { return defaultBox().Encrypt(plaintext) }

// Decrypt uses the shared default parameters.
func Decrypt(s string) (string, error) { return defaultBox().Decrypt(s) }

// TryDecrypt uses the shared default parameters.
func TryDecrypt(s string) (string, bool) { return defaultBox().TryDecrypt(s) }

// IsEncrypted uses the shared default parameters.
func IsEncrypted(s string) bool { return defaultBox().IsEncrypted(s) }

func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(append(make([]byte, 0, len(b)+n), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
