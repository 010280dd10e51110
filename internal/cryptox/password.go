package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/arturpetrov/clinicore/internal/common"
)

// bcrypt silently truncates input beyond 72 bytes; longer passwords are
// pre-condensed with SHA-256 so every byte stays significant.
const maxPasswordBytes = 72

// HashPassword returns an adaptive salted hash of plain. The salt is random
// per call, so hashing the same password twice yields two different hashes
// that both verify. An empty password fails with common.ErrValidation.
//
// Password hashing is deliberately independent of the master key: hashes
// stay verifiable even if key material is replaced between deployments.
func (s *Service) HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: password must not be empty", common.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword(condense(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash. It returns
// false, never an error, on empty input, an empty or malformed hash, or a
// mismatch, so callers cannot tell the failure causes apart.
func (s *Service) VerifyPassword(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), condense(plain)) == nil
}

// condense maps over-length passwords through a fixed-length digest before
// hashing. Hex keeps the condensed form free of NUL bytes.
func condense(plain string) []byte {
	b := []byte(plain)
	if len(b) <= maxPasswordBytes {
		return b
	}
	sum := sha256.Sum256(b)
	return []byte(hex.EncodeToString(sum[:]))
}
