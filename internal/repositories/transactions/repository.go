// Package transactions persists the financial ledger.
package transactions

import (
	"context"
	"time"

	"github.com/arturpetrov/clinicore/internal/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.FinancialTransaction) error
	GetByID(ctx context.Context, id string) (*models.FinancialTransaction, error)
	ListRange(ctx context.Context, from, to time.Time) ([]models.FinancialTransaction, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.FinancialTransaction, error)
}
