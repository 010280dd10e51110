// Package patients persists patient records. PII columns hold ciphertext
// produced by the crypto service; the deterministic national-id lookup hash
// is stored alongside so equality and uniqueness checks never need the
// plaintext or a full-table decrypt scan.
package patients

import (
	"context"
	"time"

	"github.com/arturpetrov/clinicore/internal/models"
)

// Record is the at-rest shape of a patient row. The *Enc fields carry
// ciphertext; decryption into models.PatientRecord happens in the service
// layer.
type Record struct {
	ID             string
	NationalIDEnc  string
	NationalIDHash string
	FullNameEnc    string
	PhoneEnc       string
	AddressEnc     string
	BirthDate      time.Time
	Gender         string
	Status         models.PatientStatus
	Source         string
	CreatedAt      time.Time
}

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	GetByHash(ctx context.Context, nationalIDHash string) (*Record, error)
	ExistsByHash(ctx context.Context, nationalIDHash string) (bool, error)
	Update(ctx context.Context, rec *Record) error
	SetStatus(ctx context.Context, id string, status models.PatientStatus) error
	List(ctx context.Context, status models.PatientStatus, limit int) ([]Record, error)
}
