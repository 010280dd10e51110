// Package messages persists internal notices shown to operators.
package messages

import (
	"context"

	"github.com/arturpetrov/clinicore/internal/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Message) error
	List(ctx context.Context, unreadOnly bool, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, id string) error
}
