package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/cryptox"
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/repositories/patients"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// PatientService applies field encryption transparently around the patients
// repository and enforces national-id uniqueness at the application layer.
type PatientService struct {
	db     *sql.DB
	repos  storage.RepositoryManager
	crypto *cryptox.Service
}

// NewPatientService constructs a PatientService.
func NewPatientService(db *sql.DB, repos storage.RepositoryManager, crypto *cryptox.Service) *PatientService {
	return &PatientService{db: db, repos: repos, crypto: crypto}
}

// Create encrypts the PII fields and persists the record together with its
// audit event in one unit of work. The national id must be unique before
// encryption: ciphertext is non-deterministic, so the check runs against the
// deterministic lookup hash, with the unique index as backstop.
func (s *PatientService) Create(ctx context.Context, params models.CreatePatientParams, actorID string, meta RequestMeta) (*models.PatientRecord, error) {
	if params.NationalID == "" {
		return nil, fmt.Errorf("%w: national id must not be empty", common.ErrValidation)
	}
	if params.FullName == "" {
		return nil, fmt.Errorf("%w: full name must not be empty", common.ErrValidation)
	}
	status := params.Status
	if status == "" {
		status = models.PatientNew
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrValidation, status)
	}

	rec := &patients.Record{
		ID:             uuid.NewString(),
		NationalIDHash: s.crypto.LookupHash(params.NationalID),
		BirthDate:      params.BirthDate,
		Gender:         params.Gender,
		Status:         status,
		Source:         params.Source,
	}
	var err error
	if rec.NationalIDEnc, err = s.crypto.Encrypt(params.NationalID); err != nil {
		return nil, err
	}
	if rec.FullNameEnc, err = s.crypto.Encrypt(params.FullName); err != nil {
		return nil, err
	}
	if rec.PhoneEnc, err = s.crypto.Encrypt(params.Phone); err != nil {
		return nil, err
	}
	if rec.AddressEnc, err = s.crypto.Encrypt(params.Address); err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Patients(tx)
		exists, err := repo.ExistsByHash(ctx, rec.NationalIDHash)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: national id already registered", common.ErrDuplicate)
		}
		if err := repo.Create(ctx, rec); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditPatientCreate,
			Details:    fmt.Sprintf("patient %s created", rec.ID),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
	if err != nil {
		return nil, err
	}

	out := s.toRecordPlain(rec)
	out.NationalID = params.NationalID
	out.FullName = params.FullName
	out.Phone = params.Phone
	out.Address = params.Address
	return out, nil
}

// Update re-encrypts the mutable PII fields; the national id is immutable
// after intake.
func (s *PatientService) Update(ctx context.Context, id string, params models.UpdatePatientParams, actorID string, meta RequestMeta) error {
	if params.FullName == "" {
		return fmt.Errorf("%w: full name must not be empty", common.ErrValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Patients(tx)
		rec, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rec.FullNameEnc, err = s.crypto.Encrypt(params.FullName); err != nil {
			return err
		}
		if rec.PhoneEnc, err = s.crypto.Encrypt(params.Phone); err != nil {
			return err
		}
		if rec.AddressEnc, err = s.crypto.Encrypt(params.Address); err != nil {
			return err
		}
		rec.BirthDate = params.BirthDate
		rec.Gender = params.Gender
		rec.Source = params.Source

		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditPatientUpdate,
			Details:    fmt.Sprintf("patient %s updated", id),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
}

// SetStatus persists the requested status value. Transitions are externally
// driven; no ordering rules are enforced here.
func (s *PatientService) SetStatus(ctx context.Context, id string, status models.PatientStatus, actorID string, meta RequestMeta) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrValidation, status)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Patients(tx).SetStatus(ctx, id, status); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditPatientStatus,
			Details:    fmt.Sprintf("patient %s status set to %s", id, status),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
}

// GetByID returns the record with PII decrypted for in-memory use. Reads are
// strict: a row that fails to decrypt surfaces common.ErrDecryptionFailed
// instead of masquerading as empty data.
func (s *PatientService) GetByID(ctx context.Context, id string) (*models.PatientRecord, error) {
	rec, err := s.repos.Patients(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(rec)
}

// GetByNationalID resolves a patient through the deterministic lookup hash;
// no decrypt-and-compare scan is needed.
func (s *PatientService) GetByNationalID(ctx context.Context, nationalID string) (*models.PatientRecord, error) {
	rec, err := s.repos.Patients(s.db).GetByHash(ctx, s.crypto.LookupHash(nationalID))
	if err != nil {
		return nil, err
	}
	return s.decrypt(rec)
}

// List returns up to limit records, newest first, with PII decrypted.
// Decryption cost is O(n) in the result size, acceptable at clinic scale;
// indexed lookups go through GetByNationalID.
func (s *PatientService) List(ctx context.Context, status models.PatientStatus, limit int) ([]models.PatientRecord, error) {
	recs, err := s.repos.Patients(s.db).List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	result := make([]models.PatientRecord, 0, len(recs))
	for i := range recs {
		p, err := s.decrypt(&recs[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, nil
}

// ListTolerant is the legacy read path: rows whose ciphertext fails to
// decrypt come back with the affected fields empty instead of failing the
// whole listing. Callers opt into this data-loss tolerance explicitly.
func (s *PatientService) ListTolerant(ctx context.Context, status models.PatientStatus, limit int) ([]models.PatientRecord, error) {
	recs, err := s.repos.Patients(s.db).List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	result := make([]models.PatientRecord, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		p := s.toRecordPlain(rec)
		p.NationalID = s.crypto.Open(rec.NationalIDEnc).OrEmpty()
		p.FullName = s.crypto.Open(rec.FullNameEnc).OrEmpty()
		p.Phone = s.crypto.Open(rec.PhoneEnc).OrEmpty()
		p.Address = s.crypto.Open(rec.AddressEnc).OrEmpty()
		result = append(result, *p)
	}
	return result, nil
}

// decrypt maps an at-rest record to the in-memory DTO, strictly.
func (s *PatientService) decrypt(rec *patients.Record) (*models.PatientRecord, error) {
	p := s.toRecordPlain(rec)
	var err error
	if p.NationalID, err = s.crypto.Decrypt(rec.NationalIDEnc); err != nil {
		return nil, err
	}
	if p.FullName, err = s.crypto.Decrypt(rec.FullNameEnc); err != nil {
		return nil, err
	}
	if p.Phone, err = s.crypto.Decrypt(rec.PhoneEnc); err != nil {
		return nil, err
	}
	if p.Address, err = s.crypto.Decrypt(rec.AddressEnc); err != nil {
		return nil, err
	}
	return p, nil
}

// toRecordPlain copies the non-encrypted columns.
func (s *PatientService) toRecordPlain(rec *patients.Record) *models.PatientRecord {
	return &models.PatientRecord{
		ID:        rec.ID,
		BirthDate: rec.BirthDate,
		Gender:    rec.Gender,
		Status:    rec.Status,
		Source:    rec.Source,
		CreatedAt: rec.CreatedAt,
	}
}
