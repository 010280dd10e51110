// Package operators persists clinic operator accounts. Password hashes are
// irreversible; nothing recoverable is ever stored.
package operators

import (
	"context"

	"github.com/arturpetrov/clinicore/internal/models"
)

type Repository interface {
	Create(ctx context.Context, op *models.OperatorAccount) error
	GetByID(ctx context.Context, id string) (*models.OperatorAccount, error)
	GetByUsername(ctx context.Context, username string) (*models.OperatorAccount, error)
	List(ctx context.Context) ([]models.OperatorAccount, error)
	Count(ctx context.Context) (int64, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	TouchLastLogin(ctx context.Context, id string) error
}
