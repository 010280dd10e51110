package models

import "time"

// Audit action types recorded by the core. Free-form strings are allowed,
// but the known actions keep querying consistent.
const (
	AuditLogin              = "login"
	AuditPasswordChange     = "operator.password_change"
	AuditRoleChange         = "operator.role_change"
	AuditOperatorCreate     = "operator.create"
	AuditOperatorDeactivate = "operator.deactivate"
	AuditPatientCreate      = "patient.create"
	AuditPatientUpdate      = "patient.update"
	AuditPatientStatus      = "patient.status_change"
	AuditAppointmentCreate  = "appointment.create"
	AuditAppointmentCancel  = "appointment.cancel"
	AuditTransactionRecord  = "transaction.record"
	AuditStockMovement      = "inventory.movement"
)

// AuditEvent is an append-only record of a security-relevant action.
// Once written it is never updated or deleted. CreatedAt is assigned by the
// store at insert time.
type AuditEvent struct {
	ID         string
	OperatorID *string
	Action     string
	Details    string
	IP         string
	UserAgent  string
	// Client is a parsed browser/OS label derived from UserAgent on query;
	// it is not persisted.
	Client    string
	CreatedAt time.Time
}

// AuditFilter narrows ListRecent queries. Zero values match everything.
type AuditFilter struct {
	OperatorID string
	Action     string
}
