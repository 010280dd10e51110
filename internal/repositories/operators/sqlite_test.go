package operators

import (
	"context"
	"database/sql"
	"testing"

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
CREATE TABLE operators (
  id            TEXT PRIMARY KEY,
  username      TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role          TEXT NOT NULL,
  active        INTEGER NOT NULL DEFAULT 1,
  last_login_ms INTEGER,
  created_at_ms INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func sample(id, username string) *models.OperatorAccount {
	return &models.OperatorAccount{
		ID:           id,
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         models.RoleDoctor,
		Active:       true,
	}
}

func TestCreateAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("id1", "dr.house")))

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "dr.house", got.Username)
	assert.Equal(t, models.RoleDoctor, got.Role)
	assert.True(t, got.Active)
	assert.Nil(t, got.LastLoginAt)
	assert.False(t, got.CreatedAt.IsZero())

	byName, err := r.GetByUsername(ctx, "dr.house")
	require.NoError(t, err)
	assert.Equal(t, "id1", byName.ID)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("id1", "dr.house")))
	err := r.Create(ctx, sample("id2", "dr.house"))
	assert.ErrorIs(t, err, common.ErrDuplicate)
}

func TestCountAndList(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.Create(ctx, sample("id1", "zoe")))
	require.NoError(t, r.Create(ctx, sample("id2", "adam")))

	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "adam", list[0].Username)
	assert.Equal(t, "zoe", list[1].Username)
}

func TestUpdates(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("id1", "dr.house")))

	require.NoError(t, r.UpdatePasswordHash(ctx, "id1", "newhash"))
	require.NoError(t, r.UpdateRole(ctx, "id1", models.RoleAdmin))
	require.NoError(t, r.SetActive(ctx, "id1", false))
	require.NoError(t, r.TouchLastLogin(ctx, "id1"))

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.False(t, got.Active)
	require.NotNil(t, got.LastLoginAt)

	assert.ErrorIs(t, r.UpdateRole(ctx, "missing", models.RoleAdmin), common.ErrNotFound)
	assert.ErrorIs(t, r.SetActive(ctx, "missing", true), common.ErrNotFound)
	assert.ErrorIs(t, r.TouchLastLogin(ctx, "missing"), common.ErrNotFound)
}
