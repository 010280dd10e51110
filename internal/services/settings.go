package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// SettingsService reads and writes small configuration items.
type SettingsService struct {
	db    *sql.DB
	repos storage.RepositoryManager
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(db *sql.DB, repos storage.RepositoryManager) *SettingsService {
	return &SettingsService{db: db, repos: repos}
}

// Get returns the value stored under key.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.repos.Settings(s.db).Get(ctx, key)
}

// GetDefault returns the value stored under key, or def when the key is not
// set.
func (s *SettingsService) GetDefault(ctx context.Context, key, def string) (string, error) {
	v, err := s.repos.Settings(s.db).Get(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", common.ErrValidation)
	}
	return s.repos.Settings(s.db).Set(ctx, key, value)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	return s.repos.Settings(s.db).Delete(ctx, key)
}
