package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mssola/useragent"

	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// AuditService reads the append-only event log. Writes happen inside the
// services that own the audited actions, so they share the action's unit of
// work.
type AuditService struct {
	db    *sql.DB
	repos storage.RepositoryManager
}

// NewAuditService constructs an AuditService.
func NewAuditService(db *sql.DB, repos storage.RepositoryManager) *AuditService {
	return &AuditService{db: db, repos: repos}
}

// ListRecent returns up to limit events matching the filter, newest first.
// Each event's Client field is filled with a readable label parsed from the
// stored user agent string.
func (s *AuditService) ListRecent(ctx context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error) {
	events, err := s.repos.Audit(s.db).ListRecent(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Client = clientLabel(events[i].UserAgent)
	}
	return events, nil
}

// clientLabel turns a raw user agent string into a short browser/OS label,
// e.g. "Firefox 131.0 on Linux". Unparseable strings are returned as-is.
func clientLabel(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.New(ua)
	name, version := parsed.Browser()
	if name == "" {
		return ua
	}
	label := name
	if version != "" {
		label = fmt.Sprintf("%s %s", name, version)
	}
	if os := parsed.OS(); os != "" {
		label = fmt.Sprintf("%s on %s", label, os)
	}
	return label
}
