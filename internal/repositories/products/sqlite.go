package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

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

func (r *SQLiteRepository) Create(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (id, name, code, price_cents, stock, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?)`

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Code, p.PriceCents, p.Stock, p.CreatedAt.UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: product code %q", common.ErrDuplicate, p.Code)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	return r.getOne(ctx, `WHERE code = ?`, code)
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, arg any) (*models.Product, error) {
	query := `SELECT id, name, code, price_cents, stock, created_at_ms FROM products ` + where

	var (
		p         models.Product
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Code, &p.PriceCents, &p.Stock, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &p, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, price_cents, stock, created_at_ms FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var result []models.Product
	for rows.Next() {
		var (
			p         models.Product
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.PriceCents, &p.Stock, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) AdjustStock(ctx context.Context, id string, delta int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET stock = stock + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
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

func (r *SQLiteRepository) AppendLog(ctx context.Context, log *models.InventoryLog) error {
	query := `INSERT INTO inventory_logs (id, product_id, operator_id, delta, reason, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?)`

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.ProductID, log.OperatorID, log.Delta, log.Reason, log.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListLogs(ctx context.Context, productID string, limit int) ([]models.InventoryLog, error) {
	query := `SELECT id, product_id, operator_id, delta, reason, created_at_ms
	          FROM inventory_logs WHERE product_id = ? ORDER BY created_at_ms DESC`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select inventory logs: %w", err)
	}
	defer rows.Close()

	var result []models.InventoryLog
	for rows.Next() {
		var (
			log       models.InventoryLog
			createdAt int64
		)
		if err := rows.Scan(&log.ID, &log.ProductID, &log.OperatorID, &log.Delta, &log.Reason, &createdAt); err != nil {
			return nil, err
		}
		log.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, log)
	}
	return result, rows.Err()
}
