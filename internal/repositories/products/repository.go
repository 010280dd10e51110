// Package products persists the inventory catalogue and its movement log.
package products

import (
	"context"

	"github.com/arturpetrov/clinicore/internal/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	// AdjustStock applies delta to the product's stock level. Callers pair
	// it with AppendLog inside one unit of work so the level and the log
	// never diverge.
	AdjustStock(ctx context.Context, id string, delta int64) error
	AppendLog(ctx context.Context, log *models.InventoryLog) error
	ListLogs(ctx context.Context, productID string, limit int) ([]models.InventoryLog, error)
}
