package models

import "time"

// AppointmentStatus is externally driven, like PatientStatus.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment links a patient to an operator at a point in time.
type Appointment struct {
	ID          string
	PatientID   string
	OperatorID  string
	ScheduledAt time.Time
	Duration    time.Duration
	Status      AppointmentStatus
	Notes       string
	CreatedAt   time.Time
}

// CreateAppointmentParams enumerates the fields needed to book a visit.
type CreateAppointmentParams struct {
	PatientID   string
	OperatorID  string
	ScheduledAt time.Time
	Duration    time.Duration
	Notes       string
}

// TransactionKind separates money in from money out.
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

// FinancialTransaction is a payment or expense entry. AmountCents avoids
// floating point money.
type FinancialTransaction struct {
	ID          string
	PatientID   *string
	OperatorID  string
	Kind        TransactionKind
	AmountCents int64
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// RecordTransactionParams enumerates the fields of a ledger entry.
type RecordTransactionParams struct {
	PatientID   *string
	OperatorID  string
	Kind        TransactionKind
	AmountCents int64
	Description string
	OccurredAt  time.Time
}

// Product is a stocked clinic item.
type Product struct {
	ID         string
	Name       string
	Code       string
	PriceCents int64
	Stock      int64
	CreatedAt  time.Time
}

// InventoryLog records a stock movement; Delta is negative for usage.
type InventoryLog struct {
	ID         string
	ProductID  string
	OperatorID string
	Delta      int64
	Reason     string
	CreatedAt  time.Time
}

// Message is an internal notice shown to operators (e.g. items ingested by
// the news collaborator, which only consumes this store).
type Message struct {
	ID        string
	Title     string
	Body      string
	Source    string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// Setting is a small configuration item; not itself sensitive.
type Setting struct {
	Key   string
	Value string
}
