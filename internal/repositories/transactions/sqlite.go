package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
)

const selectColumns = `id, patient_id, operator_id, kind, amount_cents, description, occurred_at_ms, created_at_ms`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.FinancialTransaction) error {
	query := `INSERT INTO transactions
	          (id, patient_id, operator_id, kind, amount_cents, description, occurred_at_ms, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	var patientID any
	if t.PatientID != nil {
		patientID = *t.PatientID
	}
	_, err := r.db.ExecContext(ctx, query,
		t.ID, patientID, t.OperatorID, string(t.Kind), t.AmountCents, t.Description,
		t.OccurredAt.UnixMilli(), t.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.FinancialTransaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.FinancialTransaction, error) {
	return r.list(ctx, `WHERE occurred_at_ms >= ? AND occurred_at_ms < ? ORDER BY occurred_at_ms`,
		from.UnixMilli(), to.UnixMilli())
}

func (r *SQLiteRepository) ListByPatient(ctx context.Context, patientID string) ([]models.FinancialTransaction, error) {
	return r.list(ctx, `WHERE patient_id = ? ORDER BY occurred_at_ms DESC`, patientID)
}

func (r *SQLiteRepository) list(ctx context.Context, tail string, args ...any) ([]models.FinancialTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM transactions `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var result []models.FinancialTransaction
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.FinancialTransaction, error) {
	var (
		t          models.FinancialTransaction
		patientID  sql.NullString
		kind       string
		occurredAt int64
		createdAt  int64
	)
	err := s.Scan(&t.ID, &patientID, &t.OperatorID, &kind, &t.AmountCents, &t.Description, &occurredAt, &createdAt)
	if err != nil {
		return nil, err
	}
	if patientID.Valid {
		t.PatientID = &patientID.String
	}
	t.Kind = models.TransactionKind(kind)
	t.OccurredAt = time.UnixMilli(occurredAt).UTC()
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &t, nil
}
