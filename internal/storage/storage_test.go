package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturpetrov/clinicore/internal/cryptox"
)

func TestOpen_CreatesAndMigrates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "clinic.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Migrations produced the core tables.
	for _, table := range []string{"operators", "patients", "audit_events", "settings"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "clinic.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Re-applying migrations on an existing store is a no-op.
	db, err = Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestEnsureDefaults_SeedsAdminOnce(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	crypto, err := cryptox.New(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)
	repos := NewSQLiteRepositoryManager()

	require.NoError(t, EnsureDefaults(ctx, db, repos, crypto))

	op, err := repos.Operators(db).GetByUsername(ctx, DefaultAdminUsername)
	require.NoError(t, err)
	assert.True(t, op.Active)
	assert.True(t, crypto.VerifyPassword(DefaultAdminPassword, op.PasswordHash))

	// Second run leaves the store untouched.
	require.NoError(t, EnsureDefaults(ctx, db, repos, crypto))
	n, err := repos.Operators(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// With operators present, even a different username set stays as-is.
	require.NoError(t, repos.Operators(db).SetActive(ctx, op.ID, false))
	require.NoError(t, EnsureDefaults(ctx, db, repos, crypto))
	n, err = repos.Operators(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
