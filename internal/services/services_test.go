package services

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arturpetrov/clinicore/internal/cryptox"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// newTestStore opens a fresh migrated store seeded with the default admin.
func newTestStore(t *testing.T) (*sql.DB, storage.RepositoryManager, *cryptox.Service) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	crypto, err := cryptox.New(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)

	repos := storage.NewSQLiteRepositoryManager()
	require.NoError(t, storage.EnsureDefaults(ctx, db, repos, crypto))

	return db, repos, crypto
}

func newTestAuth(t *testing.T, db *sql.DB, repos storage.RepositoryManager, crypto *cryptox.Service) *AuthService {
	t.Helper()
	svc, err := NewAuthService(db, repos, crypto, []byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return svc
}

// countAudit counts audit_events rows with the given action ("" for all).
func countAudit(t *testing.T, db *sql.DB, action string) int {
	t.Helper()
	var n int
	var err error
	if action == "" {
		err = db.QueryRow(`SELECT COUNT(*) FROM audit_events`).Scan(&n)
	} else {
		err = db.QueryRow(`SELECT COUNT(*) FROM audit_events WHERE action = ?`, action).Scan(&n)
	}
	require.NoError(t, err)
	return n
}
