package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/storage"
)

func TestInventory_AddAndMove(t *testing.T) {
	db, repos, _ := newTestStore(t)
	svc := NewInventoryService(db, repos)
	ctx := context.Background()

	op, err := repos.Operators(db).GetByUsername(ctx, storage.DefaultAdminUsername)
	require.NoError(t, err)

	p, err := svc.AddProduct(ctx, "Gloves, nitrile M", "GLV-M", 4500)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	require.NoError(t, svc.RecordMovement(ctx, p.ID, op.ID, 200, "initial delivery", testMeta))
	require.NoError(t, svc.RecordMovement(ctx, p.ID, op.ID, -12, "ward usage", testMeta))

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(188), got.Stock)

	logs, err := svc.ListMovements(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 2, countAudit(t, db, models.AuditStockMovement))

	byCode, err := svc.GetProductByCode(ctx, "GLV-M")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byCode.ID)
}

func TestInventory_MovementValidation(t *testing.T) {
	db, repos, _ := newTestStore(t)
	svc := NewInventoryService(db, repos)
	ctx := context.Background()

	err := svc.RecordMovement(ctx, "any", "op", 0, "noop", testMeta)
	assert.ErrorIs(t, err, common.ErrValidation)

	err = svc.RecordMovement(ctx, "missing-product", "op", 5, "delivery", testMeta)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Zero(t, countAudit(t, db, models.AuditStockMovement))
}

func TestInventory_AddProductValidation(t *testing.T) {
	db, repos, _ := newTestStore(t)
	svc := NewInventoryService(db, repos)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "", "CODE", 100)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.AddProduct(ctx, "Thing", "T1", -5)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.AddProduct(ctx, "Thing", "T1", 100)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, "Other thing", "T1", 200)
	assert.ErrorIs(t, err, common.ErrDuplicate)
}
