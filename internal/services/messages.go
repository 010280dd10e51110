package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// MessageService manages internal notices. External collaborators (such as
// the news ingester) only write through Publish; the rest of the app reads.
type MessageService struct {
	db    *sql.DB
	repos storage.RepositoryManager
}

// NewMessageService constructs a MessageService.
func NewMessageService(db *sql.DB, repos storage.RepositoryManager) *MessageService {
	return &MessageService{db: db, repos: repos}
}

// Publish stores a new notice.
func (s *MessageService) Publish(ctx context.Context, title, body, source string) (*models.Message, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	m := &models.Message{
		ID:     uuid.NewString(),
		Title:  title,
		Body:   body,
		Source: source,
	}
	if err := s.repos.Messages(s.db).Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns notices, newest first. With unreadOnly set, read notices are
// skipped.
func (s *MessageService) List(ctx context.Context, unreadOnly bool, limit int) ([]models.Message, error) {
	return s.repos.Messages(s.db).List(ctx, unreadOnly, limit)
}

// MarkRead stamps a notice as read.
func (s *MessageService) MarkRead(ctx context.Context, id string) error {
	return s.repos.Messages(s.db).MarkRead(ctx, id)
}
