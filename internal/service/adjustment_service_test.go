package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stonestock-ws/internal/model"
)

func TestBlockAdjustInDamageAndOverdraw(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createBlock(t, "BLK-010", "Basalt Block")

	require.NoError(t, env.adjust.Adjust(actor, &AdjustmentRequest{
		ItemID:       item.ID,
		LocationID:   &env.warehouse,
		MovementType: model.MovementAdjustIn,
		QtyPrimary:   dec("50"),
	}))

	require.NoError(t, env.adjust.Adjust(actor, &AdjustmentRequest{
		ItemID:       item.ID,
		LocationID:   &env.warehouse,
		MovementType: model.MovementDamageOut,
		QtyPrimary:   dec("10"),
	}))

	primary, _ := env.ledgerRepo.Balance(nil, item.ID, &env.warehouse)
	assert.True(t, primary.Equal(dec("40")), "got %s", primary)

	// Only 40 pieces remain; adjusting out 100 must fail and change nothing.
	err := env.adjust.Adjust(actor, &AdjustmentRequest{
		ItemID:       item.ID,
		LocationID:   &env.warehouse,
		MovementType: model.MovementAdjustOut,
		QtyPrimary:   dec("100"),
	})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "BLK-010", insufficient.SKU)

	primary, _ = env.ledgerRepo.Balance(nil, item.ID, &env.warehouse)
	assert.True(t, primary.Equal(dec("40")))
}

func TestAdjustmentIsLedgerOnly(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-020", "Rosso Levanto")

	require.NoError(t, env.adjust.Adjust(actor, &AdjustmentRequest{
		ItemID:       item.ID,
		LocationID:   &env.showroom,
		MovementType: model.MovementCorrectionIn,
		QtyPrimary:   dec("22"),
		QtySecondary: intPtr(1),
	}))

	// The ledger carries the movement with the adjustment ref and no ref id.
	entries, err := env.adjust.List(actor, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].RefType)
	assert.Equal(t, model.RefAdjustment, *entries[0].RefType)
	assert.Nil(t, entries[0].RefID)

	// No snapshot row: the slab view tracks trade documents only.
	slabs, err := env.snapRepo.ListSlabs("")
	require.NoError(t, err)
	assert.Empty(t, slabs)
}

func TestAdjustmentRejectsTradeMovements(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createBlock(t, "BLK-011", "Sandstone Block")

	err := env.adjust.Adjust(actor, &AdjustmentRequest{
		ItemID:       item.ID,
		LocationID:   &env.warehouse,
		MovementType: model.MovementSale,
		QtyPrimary:   dec("5"),
	})
	require.ErrorIs(t, err, ErrInvalidMovement)
}

func TestBatchAdjustmentAtomicity(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	a := env.createBlock(t, "BLK-012", "Marble Block A")
	b := env.createBlock(t, "BLK-013", "Marble Block B")

	// Second line overdraws; the first line must roll back with it.
	err := env.adjust.AdjustBatch(actor, &BatchAdjustmentRequest{
		LocationID: &env.warehouse,
		Lines: []AdjustmentRequest{
			{ItemID: a.ID, MovementType: model.MovementAdjustIn, QtyPrimary: dec("30")},
			{ItemID: b.ID, MovementType: model.MovementAdjustOut, QtyPrimary: dec("5")},
		},
	})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	primary, _ := env.ledgerRepo.Balance(nil, a.ID, &env.warehouse)
	assert.True(t, primary.IsZero(), "first line must be rolled back, got %s", primary)
}

func TestAdjustmentListOpenToPosters(t *testing.T) {
	env := setupTestEnv(t)
	item := env.createBlock(t, "BLK-015", "Quartzite Block")

	require.NoError(t, env.adjust.Adjust(adminActor(), &AdjustmentRequest{
		ItemID:       item.ID,
		LocationID:   &env.warehouse,
		MovementType: model.MovementAdjustIn,
		QtyPrimary:   dec("5"),
	}))

	// Staff stripped down to posting rights still see the history they write.
	poster := model.Actor{
		UserID:     uuid.New(),
		Username:   "poster",
		RoleCode:   model.RoleStaff,
		Privileges: []string{"adjustment:create"},
	}
	entries, err := env.adjust.List(poster, "", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = env.adjust.List(model.Actor{Username: "nobody"}, "", 0)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAdjustmentPermission(t *testing.T) {
	env := setupTestEnv(t)
	item := env.createBlock(t, "BLK-014", "Limestone Block")

	err := env.adjust.Adjust(viewerActor(), &AdjustmentRequest{
		ItemID:       item.ID,
		LocationID:   &env.warehouse,
		MovementType: model.MovementAdjustIn,
		QtyPrimary:   dec("5"),
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}
