// Package models holds the persistent entities of the clinic core and the
// typed construction parameters used to create them. PII-bearing types carry
// plaintext values only in memory; repositories encrypt them at rest.
package models

import "time"

// Role is the operator role enumeration.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleSecretary  Role = "secretary"
	RoleAccountant Role = "accountant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleSecretary, RoleAccountant:
		return true
	}
	return false
}

// OperatorAccount is a clinic operator. PasswordHash is irreversible; no
// recoverable secret is ever stored.
type OperatorAccount struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// CreateOperatorParams enumerates the fields required to provision an
// operator account. Password is the plaintext credential; it is hashed
// before anything touches storage.
type CreateOperatorParams struct {
	Username string
	Password string
	Role     Role
}
