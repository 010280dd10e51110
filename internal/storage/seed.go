package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/arturpetrov/clinicore/internal/cryptox"
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
)

// Default credentials for a freshly initialized store. The UI forces a
// password change on first login; the hash itself is salted per deployment.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
)

// EnsureDefaults provisions the built-in admin account when the operators
// table is empty, inside one unit of work. Subsequent runs are no-ops.
func EnsureDefaults(ctx context.Context, db *sql.DB, m RepositoryManager, crypto *cryptox.Service) error {
	n, err := m.Operators(db).Count(ctx)
	if err != nil {
		return fmt.Errorf("count operators: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return m.Operators(tx).Create(ctx, &models.OperatorAccount{
			ID:           uuid.NewString(),
			Username:     DefaultAdminUsername,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			Active:       true,
		})
	})
}
