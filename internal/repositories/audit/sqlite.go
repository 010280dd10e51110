package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Bound to a *sql.Tx it lets callers fold the audit write into the same unit
// of work as the primary mutation, so both commit or roll back together.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	query := `INSERT INTO audit_events (id, operator_id, action, details, ip, user_agent, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = time.Now().UTC()

	var operatorID any
	if event.OperatorID != nil {
		operatorID = *event.OperatorID
	}
	_, err := r.db.ExecContext(ctx, query,
		event.ID, operatorID, event.Action, event.Details, event.IP, event.UserAgent,
		event.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error) {
	query := `SELECT id, operator_id, action, details, ip, user_agent, created_at_ms
	          FROM audit_events WHERE 1=1`
	var args []any
	if filter.OperatorID != "" {
		query += ` AND operator_id = ?`
		args = append(args, filter.OperatorID)
	}
	if filter.Action != "" {
		query += ` AND action = ?`
		args = append(args, filter.Action)
	}
	query += ` ORDER BY created_at_ms DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select audit events: %w", err)
	}
	defer rows.Close()

	var result []models.AuditEvent
	for rows.Next() {
		var (
			event      models.AuditEvent
			operatorID sql.NullString
			createdAt  int64
		)
		if err := rows.Scan(&event.ID, &operatorID, &event.Action, &event.Details,
			&event.IP, &event.UserAgent, &createdAt); err != nil {
			return nil, err
		}
		if operatorID.Valid {
			event.OperatorID = &operatorID.String
		}
		event.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, event)
	}
	return result, rows.Err()
}
