package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/arturpetrov/clinicore/internal/common"
)

// FieldState classifies the outcome of opening a stored field value.
type FieldState int

const (
	// FieldEmpty means the stored value was empty by design.
	FieldEmpty FieldState = iota
	// FieldPresent means the value decrypted successfully.
	FieldPresent
	// FieldFailed means the ciphertext was tampered with or encrypted
	// under a different key.
	FieldFailed
)

// Field is the result of opening a stored ciphertext. It forces callers to
// distinguish a value that is empty by design from one that failed to
// decrypt, instead of collapsing both into "".
type Field struct {
	Value string
	State FieldState
	Err   error
}

// OrEmpty is the legacy-tolerant read: the decrypted value, or "" when the
// field is empty or failed to decrypt. Callers opting into this tolerance
// accept that corrupt ciphertext reads as missing data.
func (f Field) OrEmpty() string {
	if f.State == FieldPresent {
		return f.Value
	}
	return ""
}

// Encrypt seals plain with AES-GCM under a fresh random 12-byte nonce and
// returns base64(nonce || ciphertext). The random nonce means two
// encryptions of the same plaintext are never byte-identical, so equality
// checks on encrypted columns must go through LookupHash instead.
// An empty input encrypts to "".
func (s *Service) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	sealed := s.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt is the strict read path: tampered ciphertext, a wrong key, or a
// structurally invalid value fail with common.ErrDecryptionFailed.
// "" decrypts to "".
func (s *Service) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding: %v", common.ErrDecryptionFailed, err)
	}
	if len(raw) < s.aead.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrDecryptionFailed)
	}

	nonce, sealed := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	return string(plain), nil
}

// Open decrypts ciphertext into a Field result, distinguishing
// present-value, empty-by-design, and failed-with-reason outcomes.
func (s *Service) Open(ciphertext string) Field {
	if ciphertext == "" {
		return Field{State: FieldEmpty}
	}
	plain, err := s.Decrypt(ciphertext)
	if err != nil {
		return Field{State: FieldFailed, Err: err}
	}
	return Field{Value: plain, State: FieldPresent}
}

// LookupHash returns a deterministic keyed digest of plain, hex-encoded.
// The digest is computed under a subkey derived from the master key, so it
// can be stored next to the random ciphertext and unique-indexed to enforce
// equality and uniqueness without exposing plaintext. "" hashes to "".
func (s *Service) LookupHash(plain string) string {
	if plain == "" {
		return ""
	}
	mac := hmac.New(sha256.New, s.lookupKey)
	mac.Write([]byte(plain))
	return hex.EncodeToString(mac.Sum(nil))
}
