// Package audit persists the append-only event log. The interface exposes no
// update or delete: once written, an event is immutable by contract.
package audit

import (
	"context"

	"github.com/arturpetrov/clinicore/internal/models"
)

type Repository interface {
	// Append writes an immutable event. The timestamp is assigned at
	// insert time, not by the caller.
	Append(ctx context.Context, event *models.AuditEvent) error
	// ListRecent returns up to limit events matching the filter, newest
	// first.
	ListRecent(ctx context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error)
}
