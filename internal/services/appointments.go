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

// AppointmentService books and manages visits. Scheduling rules live in the
// calling layer; this core persists and audits.
type AppointmentService struct {
	db    *sql.DB
	repos storage.RepositoryManager
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(db *sql.DB, repos storage.RepositoryManager) *AppointmentService {
	return &AppointmentService{db: db, repos: repos}
}

// Create books a visit; the insert and its audit event share one unit of
// work so a partial failure never leaves the schedule and the trail
// inconsistent.
func (s *AppointmentService) Create(ctx context.Context, params models.CreateAppointmentParams, actorID string, meta RequestMeta) (*models.Appointment, error) {
	if params.PatientID == "" || params.OperatorID == "" {
		return nil, fmt.Errorf("%w: patient and operator are required", common.ErrValidation)
	}
	if params.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled time is required", common.ErrValidation)
	}
	duration := params.Duration
	if duration == 0 {
		duration = 30 * time.Minute
	}

	a := &models.Appointment{
		ID:          uuid.NewString(),
		PatientID:   params.PatientID,
		OperatorID:  params.OperatorID,
		ScheduledAt: params.ScheduledAt,
		Duration:    duration,
		Status:      models.AppointmentScheduled,
		Notes:       params.Notes,
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Patients(tx).GetByID(ctx, params.PatientID); err != nil {
			return err
		}
		if err := s.repos.Appointments(tx).Create(ctx, a); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditAppointmentCreate,
			Details:    fmt.Sprintf("appointment %s booked for patient %s", a.ID, a.PatientID),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel marks an appointment cancelled, audited in the same scope.
func (s *AppointmentService) Cancel(ctx context.Context, id, actorID string, meta RequestMeta) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Appointments(tx).SetStatus(ctx, id, models.AppointmentCancelled); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditAppointmentCancel,
			Details:    fmt.Sprintf("appointment %s cancelled", id),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
}

// Complete marks a finished visit; routine bookkeeping, not audited.
func (s *AppointmentService) Complete(ctx context.Context, id string) error {
	return s.repos.Appointments(s.db).SetStatus(ctx, id, models.AppointmentCompleted)
}

// GetByID returns one appointment.
func (s *AppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return s.repos.Appointments(s.db).GetByID(ctx, id)
}

// ListByPatient returns a patient's visits, newest first.
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.repos.Appointments(s.db).ListByPatient(ctx, patientID)
}

// ListRange returns the schedule between from (inclusive) and to (exclusive).
func (s *AppointmentService) ListRange(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	return s.repos.Appointments(s.db).ListRange(ctx, from, to)
}
