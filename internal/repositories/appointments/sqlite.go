package appointments

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

const selectColumns = `id, patient_id, operator_id, scheduled_at_ms, duration_min, status, notes, created_at_ms`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Appointment) error {
	query := `INSERT INTO appointments
	          (id, patient_id, operator_id, scheduled_at_ms, duration_min, status, notes, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.PatientID, a.OperatorID, a.ScheduledAt.UnixMilli(),
		int64(a.Duration.Minutes()), string(a.Status), a.Notes, a.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM appointments WHERE id = ?`, id)
	a, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select appointment: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.list(ctx, `WHERE patient_id = ? ORDER BY scheduled_at_ms DESC`, patientID)
}

func (r *SQLiteRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	return r.list(ctx, `WHERE scheduled_at_ms >= ? AND scheduled_at_ms < ? ORDER BY scheduled_at_ms`,
		from.UnixMilli(), to.UnixMilli())
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE appointments SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, tail string, args ...any) ([]models.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM appointments `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("select appointments: %w", err)
	}
	defer rows.Close()

	var result []models.Appointment
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Appointment, error) {
	var (
		a           models.Appointment
		scheduledAt int64
		durationMin int64
		status      string
		createdAt   int64
	)
	err := s.Scan(&a.ID, &a.PatientID, &a.OperatorID, &scheduledAt, &durationMin, &status, &a.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	a.ScheduledAt = time.UnixMilli(scheduledAt).UTC()
	a.Duration = time.Duration(durationMin) * time.Minute
	a.Status = models.AppointmentStatus(status)
	a.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &a, nil
}
