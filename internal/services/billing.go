package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// BillingService records ledger entries.
type BillingService struct {
	db    *sql.DB
	repos storage.RepositoryManager
}

// NewBillingService constructs a BillingService.
func NewBillingService(db *sql.DB, repos storage.RepositoryManager) *BillingService {
	return &BillingService{db: db, repos: repos}
}

// Record persists a ledger entry and its audit event in one unit of work.
func (s *BillingService) Record(ctx context.Context, params models.RecordTransactionParams, meta RequestMeta) (*models.FinancialTransaction, error) {
	if params.OperatorID == "" {
		return nil, fmt.Errorf("%w: operator is required", common.ErrValidation)
	}
	if params.Kind != models.TransactionIncome && params.Kind != models.TransactionExpense {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", common.ErrValidation, params.Kind)
	}
	if params.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	occurredAt := params.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	t := &models.FinancialTransaction{
		ID:          uuid.NewString(),
		PatientID:   params.PatientID,
		OperatorID:  params.OperatorID,
		Kind:        params.Kind,
		AmountCents: params.AmountCents,
		Description: params.Description,
		OccurredAt:  occurredAt,
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Transactions(tx).Create(ctx, t); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: &t.OperatorID,
			Action:     models.AuditTransactionRecord,
			Details:    fmt.Sprintf("%s of %d cents recorded", t.Kind, t.AmountCents),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListRange returns ledger entries between from (inclusive) and to (exclusive).
func (s *BillingService) ListRange(ctx context.Context, from, to time.Time) ([]models.FinancialTransaction, error) {
	return s.repos.Transactions(s.db).ListRange(ctx, from, to)
}

// ListByPatient returns a patient's ledger entries, newest first.
func (s *BillingService) ListByPatient(ctx context.Context, patientID string) ([]models.FinancialTransaction, error) {
	return s.repos.Transactions(s.db).ListByPatient(ctx, patientID)
}
