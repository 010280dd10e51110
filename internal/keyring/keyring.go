// Package keyring resolves the process-wide symmetric master key.
//
// The key is resolved exactly once at startup and treated as immutable,
// shared, read-only state for the process lifetime. Resolution order:
// explicit override, then the environment variable, then the on-disk key
// file, else a fresh random key is generated and persisted once per
// deployment. Rotation is out of scope.
package keyring

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arturpetrov/clinicore/internal/common"
)

// EnvVar is the environment variable consulted for hex-encoded key material.
const EnvVar = "CLINICORE_MASTER_KEY"

// KeySize is the generated key length in bytes (AES-256).
const KeySize = 32

// keyFileMode keeps the persisted key readable by the owning account only.
const keyFileMode = 0o600

// Resolve returns the master key, trying sources in order: the explicit
// override, the EnvVar environment variable (hex), the key file at path,
// and finally a freshly generated key persisted to path.
//
// Malformed hex, an unreadable existing key file, or a failed first-run
// persist all fail with an error wrapping common.ErrKeyLoad. Key length is
// not validated here; the cipher construction in cryptox rejects lengths it
// cannot use.
func Resolve(override []byte, path string) ([]byte, error) {
	if len(override) > 0 {
		return override, nil
	}

	if v := os.Getenv(EnvVar); v != "" {
		key, err := hex.DecodeString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not valid hex: %v", common.ErrKeyLoad, EnvVar, err)
		}
		return key, nil
	}

	key, err := readKeyFile(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return generateAndPersist(path)
}

// readKeyFile loads a hex-encoded key from disk.
// A missing file is reported as os.ErrNotExist so the caller can fall
// through to generation; every other failure wraps common.ErrKeyLoad.
func readKeyFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read key file %s: %v", common.ErrKeyLoad, path, err)
	}

	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: key file %s is not valid hex: %v", common.ErrKeyLoad, path, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: key file %s is empty", common.ErrKeyLoad, path)
	}
	return key, nil
}

// generateAndPersist creates a fresh random key and writes it to path.
// This is the once-per-deployment side effect of first run.
func generateAndPersist(path string) ([]byte, error) {
	key := common.GenerateRandByteArray(KeySize)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("%w: create key dir %s: %v", common.ErrKeyLoad, dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), keyFileMode); err != nil {
		return nil, fmt.Errorf("%w: persist key file %s: %v", common.ErrKeyLoad, path, err)
	}
	return key, nil
}
