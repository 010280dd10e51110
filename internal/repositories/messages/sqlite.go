package messages

import (
	"context"
	"database/sql"
	"fmt"
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

func (r *SQLiteRepository) Create(ctx context.Context, m *models.Message) error {
	query := `INSERT INTO messages (id, title, body, source, created_at_ms)
	          VALUES (?, ?, ?, ?, ?)`

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Title, m.Body, m.Source, m.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, unreadOnly bool, limit int) ([]models.Message, error) {
	query := `SELECT id, title, body, source, read_at_ms, created_at_ms FROM messages`
	var args []any
	if unreadOnly {
		query += ` WHERE read_at_ms IS NULL`
	}
	query += ` ORDER BY created_at_ms DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var (
			m         models.Message
			readAt    sql.NullInt64
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &m.Source, &readAt, &createdAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := time.UnixMilli(readAt.Int64).UTC()
			m.ReadAt = &t
		}
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at_ms = ? WHERE id = ? AND read_at_ms IS NULL`,
		time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
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
