// Package common defines shared sentinel errors and small utilities used
// across the clinicore layers. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	// Caller input errors. Fatal to the call, never retried.
	ErrValidation = errors.New("validation error")

	// Key material errors. Fatal at process start.
	ErrKeyLoad = errors.New("key load error")

	// Wrong key or corrupted ciphertext on a strict read path.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Transaction failure. The unit of work has been rolled back in full.
	ErrPersistence = errors.New("persistence error")

	// Negative authentication. Unknown user and wrong password are
	// deliberately indistinguishable through this value.
	ErrUnauthorized = errors.New("unauthorized")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
