package patients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
)

const selectColumns = `id, national_id_enc, national_id_hash, full_name_enc,
	phone_enc, address_enc, birth_date_ms, gender, status, source, created_at_ms`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) error {
	query := `INSERT INTO patients
	          (id, national_id_enc, national_id_hash, full_name_enc, phone_enc, address_enc,
	           birth_date_ms, gender, status, source, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.NationalIDEnc, rec.NationalIDHash, rec.FullNameEnc, rec.PhoneEnc, rec.AddressEnc,
		dateToMs(rec.BirthDate), rec.Gender, string(rec.Status), rec.Source, rec.CreatedAt.UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: national id already registered", common.ErrDuplicate)
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByHash(ctx context.Context, nationalIDHash string) (*Record, error) {
	return r.getOne(ctx, `WHERE national_id_hash = ?`, nationalIDHash)
}

func (r *SQLiteRepository) ExistsByHash(ctx context.Context, nationalIDHash string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patients WHERE national_id_hash = ?`, nationalIDHash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check national id: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *Record) error {
	query := `UPDATE patients SET full_name_enc = ?, phone_enc = ?, address_enc = ?,
	          birth_date_ms = ?, gender = ?, source = ?
	          WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		rec.FullNameEnc, rec.PhoneEnc, rec.AddressEnc,
		dateToMs(rec.BirthDate), rec.Gender, rec.Source, rec.ID)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return oneRow(res)
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.PatientStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE patients SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update patient status: %w", err)
	}
	return oneRow(res)
}

// List returns records newest first, optionally filtered by status.
// Decryption of the result is O(n) in the service layer; at clinic scale
// that is acceptable, and indexed lookups go through GetByHash instead.
func (r *SQLiteRepository) List(ctx context.Context, status models.PatientStatus, limit int) ([]Record, error) {
	query := `SELECT ` + selectColumns + ` FROM patients`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at_ms DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select patients: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, arg any) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM patients `+where, arg)
	rec, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select patient: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*Record, error) {
	var (
		rec       Record
		birthDate sql.NullInt64
		status    string
		createdAt int64
	)
	err := s.Scan(&rec.ID, &rec.NationalIDEnc, &rec.NationalIDHash, &rec.FullNameEnc,
		&rec.PhoneEnc, &rec.AddressEnc, &birthDate, &rec.Gender, &status, &rec.Source, &createdAt)
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		rec.BirthDate = time.UnixMilli(birthDate.Int64).UTC()
	}
	rec.Status = models.PatientStatus(status)
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &rec, nil
}

func dateToMs(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
