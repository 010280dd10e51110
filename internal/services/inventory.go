package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// InventoryService manages the product catalogue and its stock levels.
type InventoryService struct {
	db    *sql.DB
	repos storage.RepositoryManager
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(db *sql.DB, repos storage.RepositoryManager) *InventoryService {
	return &InventoryService{db: db, repos: repos}
}

// AddProduct registers a new catalogue item with an initial stock level of
// zero. The code must be unique.
func (s *InventoryService) AddProduct(ctx context.Context, name, code string, priceCents int64) (*models.Product, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: name and code are required", common.ErrValidation)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", common.ErrValidation)
	}
	p := &models.Product{
		ID:         uuid.NewString(),
		Name:       name,
		Code:       code,
		PriceCents: priceCents,
	}
	if err := s.repos.Products(s.db).Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordMovement applies a stock delta, appends the movement log entry and
// the audit event in one unit of work. Delta is negative for usage.
func (s *InventoryService) RecordMovement(ctx context.Context, productID, operatorID string, delta int64, reason string, meta RequestMeta) error {
	if delta == 0 {
		return fmt.Errorf("%w: delta cannot be zero", common.ErrValidation)
	}
	if operatorID == "" {
		return fmt.Errorf("%w: operator is required", common.ErrValidation)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		products := s.repos.Products(tx)
		if _, err := products.GetByID(ctx, productID); err != nil {
			return err
		}
		if err := products.AdjustStock(ctx, productID, delta); err != nil {
			return err
		}
		if err := products.AppendLog(ctx, &models.InventoryLog{
			ID:         uuid.NewString(),
			ProductID:  productID,
			OperatorID: operatorID,
			Delta:      delta,
			Reason:     reason,
		}); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: &operatorID,
			Action:     models.AuditStockMovement,
			Details:    fmt.Sprintf("stock of %s changed by %+d", productID, delta),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
}

// GetProduct looks up a product by id.
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repos.Products(s.db).GetByID(ctx, id)
}

// GetProductByCode looks up a product by its catalogue code.
func (s *InventoryService) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	return s.repos.Products(s.db).GetByCode(ctx, code)
}

// ListProducts returns the full catalogue.
func (s *InventoryService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repos.Products(s.db).List(ctx)
}

// ListMovements returns the most recent stock movements of a product.
func (s *InventoryService) ListMovements(ctx context.Context, productID string, limit int) ([]models.InventoryLog, error) {
	return s.repos.Products(s.db).ListLogs(ctx, productID, limit)
}
