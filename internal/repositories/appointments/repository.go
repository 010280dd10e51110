// Package appointments persists clinic visits.
package appointments

import (
	"context"
	"time"

	"github.com/arturpetrov/clinicore/internal/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListRange(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	SetStatus(ctx context.Context, id string, status models.AppointmentStatus) error
}
