package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stonestock-ws/internal/model"
)

func TestHideSnapshotRemovesRowFromView(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-030", "Azul Macaubas")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("30"), QtySecondary: intPtr(2)}},
	})
	require.NoError(t, err)

	slabs, err := env.stock.Slabs(actor, "")
	require.NoError(t, err)
	require.Len(t, slabs, 1)

	require.NoError(t, env.stock.HideSnapshot(actor, model.CategorySlab, slabs[0].ID))

	slabs, err = env.stock.Slabs(actor, "")
	require.NoError(t, err)
	assert.Empty(t, slabs)

	// Hiding the page row never rewrites history.
	primary, secondary := env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("30")), "got %s", primary)
	assert.Equal(t, 2, secondary)
}

func TestHideSnapshotGuards(t *testing.T) {
	env := setupTestEnv(t)

	err := env.stock.HideSnapshot(viewerActor(), model.CategorySlab, uuid.New())
	require.ErrorIs(t, err, ErrPermissionDenied)

	err = env.stock.HideSnapshot(adminActor(), "GRAVEL", uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}
