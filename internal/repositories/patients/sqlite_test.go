package patients

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE patients (
  id               TEXT PRIMARY KEY,
  national_id_enc  TEXT NOT NULL,
  national_id_hash TEXT NOT NULL UNIQUE,
  full_name_enc    TEXT NOT NULL,
  phone_enc        TEXT NOT NULL DEFAULT '',
  address_enc      TEXT NOT NULL DEFAULT '',
  birth_date_ms    INTEGER,
  gender           TEXT NOT NULL DEFAULT '',
  status           TEXT NOT NULL DEFAULT 'new',
  source           TEXT NOT NULL DEFAULT '',
  created_at_ms    INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func sample(id, hash string) *Record {
	return &Record{
		ID:             id,
		NationalIDEnc:  "enc:" + id,
		NationalIDHash: hash,
		FullNameEnc:    "enc:name:" + id,
		PhoneEnc:       "enc:phone",
		AddressEnc:     "enc:addr",
		BirthDate:      time.Date(1985, 6, 1, 0, 0, 0, 0, time.UTC),
		Gender:         "M",
		Status:         models.PatientNew,
		Source:         "walk-in",
	}
}

func TestCreateAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("p1", "hash1")))

	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "enc:p1", got.NationalIDEnc)
	assert.Equal(t, "hash1", got.NationalIDHash)
	assert.Equal(t, time.Date(1985, 6, 1, 0, 0, 0, 0, time.UTC), got.BirthDate)
	assert.Equal(t, models.PatientNew, got.Status)

	byHash, err := r.GetByHash(ctx, "hash1")
	require.NoError(t, err)
	assert.Equal(t, "p1", byHash.ID)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = r.GetByHash(ctx, "nohash")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreate_NullBirthDate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	rec := sample("p1", "hash1")
	rec.BirthDate = time.Time{}
	require.NoError(t, r.Create(ctx, rec))

	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.BirthDate.IsZero())
}

func TestCreate_DuplicateHash(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("p1", "hash1")))
	err := r.Create(ctx, sample("p2", "hash1"))
	assert.ErrorIs(t, err, common.ErrDuplicate)
}

func TestExistsByHash(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	exists, err := r.ExistsByHash(ctx, "hash1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, r.Create(ctx, sample("p1", "hash1")))

	exists, err = r.ExistsByHash(ctx, "hash1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdate_DoesNotTouchNationalID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("p1", "hash1")))

	rec, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	rec.FullNameEnc = "enc:newname"
	rec.NationalIDEnc = "should-be-ignored"
	rec.Source = "referral"
	require.NoError(t, r.Update(ctx, rec))

	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "enc:newname", got.FullNameEnc)
	assert.Equal(t, "enc:p1", got.NationalIDEnc)
	assert.Equal(t, "referral", got.Source)

	missing := sample("nope", "hash2")
	assert.ErrorIs(t, r.Update(ctx, missing), common.ErrNotFound)
}

func TestSetStatusAndList(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	first := sample("p1", "hash1")
	first.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, r.Create(ctx, first))
	require.NoError(t, r.Create(ctx, sample("p2", "hash2")))

	require.NoError(t, r.SetStatus(ctx, "p1", models.PatientArchived))
	assert.ErrorIs(t, r.SetStatus(ctx, "missing", models.PatientActive), common.ErrNotFound)

	all, err := r.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, "p2", all[0].ID)

	archived, err := r.List(ctx, models.PatientArchived, 0)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "p1", archived[0].ID)

	limited, err := r.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
