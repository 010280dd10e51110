// Package cryptox implements the two cryptographic facilities of the secure
// persistence core: adaptive password hashing and authenticated field
// encryption. Both hang off a Service constructed from the resolved master
// key, injected explicitly from the application root so tests can run with
// per-test keys and no hidden global state exists.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/arturpetrov/clinicore/internal/common"
)

// lookupContext separates the deterministic lookup-hash subkey from the
// AES key so ciphertext and lookup digests never share key material.
const lookupContext = "clinicore/lookup-hash/v1"

// Service provides field encryption, deterministic lookup hashing, and
// password hashing. Safe for concurrent use; the key is read-only after
// construction.
type Service struct {
	aead      cipher.AEAD
	lookupKey []byte
}

// New builds a Service from the master key. The key must be a valid AES key
// length (16, 24, or 32 bytes); anything else fails with common.ErrKeyLoad.
func New(key []byte) (*Service, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyLoad, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyLoad, err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(lookupContext))

	return &Service{
		aead:      aead,
		lookupKey: mac.Sum(nil),
	}, nil
}
