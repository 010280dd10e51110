package models

import "time"

// PatientStatus is externally driven; the core persists the requested value
// and enforces no transition rules.
type PatientStatus string

const (
	PatientNew      PatientStatus = "new"
	PatientActive   PatientStatus = "active"
	PatientArchived PatientStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s PatientStatus) Valid() bool {
	switch s {
	case PatientNew, PatientActive, PatientArchived:
		return true
	}
	return false
}

// PatientRecord is the in-memory view of a patient with PII already
// decrypted. National id, full name, phone, and address are stored
// encrypted; birth date, gender, status, and source are operational
// plaintext.
type PatientRecord struct {
	ID         string
	NationalID string
	FullName   string
	Phone      string
	Address    string
	BirthDate  time.Time
	Gender     string
	Status     PatientStatus
	Source     string
	CreatedAt  time.Time
}

// CreatePatientParams enumerates required and optional intake fields.
// NationalID and FullName are required; NationalID must be globally unique
// before encryption.
type CreatePatientParams struct {
	NationalID string
	FullName   string
	Phone      string
	Address    string
	BirthDate  time.Time
	Gender     string
	Status     PatientStatus
	Source     string
}

// UpdatePatientParams carries the mutable fields of an existing record.
// The national id is immutable after intake.
type UpdatePatientParams struct {
	FullName  string
	Phone     string
	Address   string
	BirthDate time.Time
	Gender    string
	Source    string
}
