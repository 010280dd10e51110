package operators

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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, op *models.OperatorAccount) error {
	query := `INSERT INTO operators (id, username, password_hash, role, active, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?)`

	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		op.ID, op.Username, op.PasswordHash, string(op.Role), boolToInt(op.Active), op.CreatedAt.UnixMilli())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %q", common.ErrDuplicate, op.Username)
		}
		return fmt.Errorf("insert operator: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.OperatorAccount, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.OperatorAccount, error) {
	return r.getOne(ctx, `WHERE username = ?`, username)
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, arg any) (*models.OperatorAccount, error) {
	query := `SELECT id, username, password_hash, role, active, last_login_ms, created_at_ms
	          FROM operators ` + where

	var (
		op        models.OperatorAccount
		role      string
		active    int
		lastLogin sql.NullInt64
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&op.ID, &op.Username, &op.PasswordHash, &role, &active, &lastLogin, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select operator: %w", err)
	}

	op.Role = models.Role(role)
	op.Active = active != 0
	if lastLogin.Valid {
		t := time.UnixMilli(lastLogin.Int64).UTC()
		op.LastLoginAt = &t
	}
	op.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &op, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.OperatorAccount, error) {
	query := `SELECT id, username, password_hash, role, active, last_login_ms, created_at_ms
	          FROM operators ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select operators: %w", err)
	}
	defer rows.Close()

	var result []models.OperatorAccount
	for rows.Next() {
		var (
			op        models.OperatorAccount
			role      string
			active    int
			lastLogin sql.NullInt64
			createdAt int64
		)
		if err := rows.Scan(&op.ID, &op.Username, &op.PasswordHash, &role, &active, &lastLogin, &createdAt); err != nil {
			return nil, err
		}
		op.Role = models.Role(role)
		op.Active = active != 0
		if lastLogin.Valid {
			t := time.UnixMilli(lastLogin.Int64).UTC()
			op.LastLoginAt = &t
		}
		op.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, op)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operators`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count operators: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.exec(ctx, `UPDATE operators SET password_hash = ? WHERE id = ?`, hash, id)
}

func (r *SQLiteRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.exec(ctx, `UPDATE operators SET role = ? WHERE id = ?`, string(role), id)
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx, `UPDATE operators SET active = ? WHERE id = ?`, boolToInt(active), id)
}

func (r *SQLiteRepository) TouchLastLogin(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE operators SET last_login_ms = ? WHERE id = ?`, time.Now().UTC().UnixMilli(), id)
}

// exec runs an UPDATE targeting one row and maps a zero-row result to
// common.ErrNotFound.
func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update operator: %w", err)
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
