package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stonestock-ws/internal/model"
)

func TestSlabPurchaseSaleAndInsufficientStock(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-001", "Carrara White 18mm")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		VendorName: strPtr("Marble Co"),
		Items: []TradeLineRequest{
			{ItemID: item.ID, QtyPrimary: dec("100"), QtySecondary: intPtr(5)},
		},
	})
	require.NoError(t, err)

	primary, secondary := env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("100")), "got %s", primary)
	assert.Equal(t, 5, secondary)

	_, err = env.trade.CreateSale(actor, &SaleRequest{
		LocationID:   &env.showroom,
		CustomerName: strPtr("Walk-in"),
		Items: []TradeLineRequest{
			{ItemID: item.ID, QtyPrimary: dec("40"), QtySecondary: intPtr(2)},
		},
	})
	require.NoError(t, err)

	primary, secondary = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("60")), "got %s", primary)
	assert.Equal(t, 3, secondary)

	// 4 more slabs than the 3 remaining must be rejected with the full
	// availability picture.
	_, err = env.trade.CreateSale(actor, &SaleRequest{
		LocationID: &env.showroom,
		Items: []TradeLineRequest{
			{ItemID: item.ID, QtyPrimary: dec("80"), QtySecondary: intPtr(4)},
		},
	})
	require.Error(t, err)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "SLB-001", insufficient.SKU)
	assert.Contains(t, err.Error(), "Insufficient stock")

	// The failed sale must leave no trace.
	primary, secondary = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("60")))
	assert.Equal(t, 3, secondary)
	sales, err := env.tradeRepo.ListSales("", 0)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestSlabSaleRequiresSecondaryCount(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-002", "Nero Marquina")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("50"), QtySecondary: nil}},
	})
	require.Error(t, err)
	var qty *QuantityError
	require.ErrorAs(t, err, &qty)
	assert.Equal(t, "SLB-002", qty.SKU)
}

func TestBlockIgnoresSecondaryQuantity(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createBlock(t, "BLK-001", "Granite Block Rough")

	// A count sneaks in on a piece-only category; it must be dropped, not
	// stored.
	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.warehouse,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(7)}},
	})
	require.NoError(t, err)

	entries, err := env.ledgerRepo.List("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].QtySecondary)
	assert.Equal(t, "piece", entries[0].UnitPrimary)

	primary, secondary := env.ledgerRepo.Balance(nil, item.ID, &env.warehouse)
	assert.True(t, primary.Equal(dec("20")))
	assert.Equal(t, 0, secondary)
}

func TestPurchaseWritesLedgerAndSnapshotTogether(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-003", "Calacatta Gold")

	p, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		VendorName: strPtr("Quarry Direct"),
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("44.5"), QtySecondary: intPtr(2)}},
	})
	require.NoError(t, err)
	require.Equal(t, model.TxActive, p.Status)

	entries, err := env.ledgerRepo.ListByRef(model.RefPurchase, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.MovementPurchase, entries[0].MovementType)

	slabs, err := env.snapRepo.ListSlabs("")
	require.NoError(t, err)
	require.Len(t, slabs, 1)
	assert.Equal(t, 2, slabs[0].SlabCount)
	assert.True(t, slabs[0].TotalSqft.Equal(dec("44.5")))
	require.NotNil(t, slabs[0].Notes)
	assert.Contains(t, *slabs[0].Notes, "Purchase#")
	assert.Contains(t, *slabs[0].Notes, "Quarry Direct")
}

func TestCancelSaleRestoresStockOnce(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-004", "Emperador Dark")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("100"), QtySecondary: intPtr(5)}},
	})
	require.NoError(t, err)

	sale, err := env.trade.CreateSale(actor, &SaleRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("40"), QtySecondary: intPtr(2)}},
	})
	require.NoError(t, err)

	require.NoError(t, env.trade.CancelSale(actor, sale.ID))

	primary, secondary := env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("100")), "got %s", primary)
	assert.Equal(t, 5, secondary)

	entries, err := env.ledgerRepo.ListByRef(model.RefSale, sale.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	types := []model.MovementType{entries[0].MovementType, entries[1].MovementType}
	assert.Contains(t, types, model.MovementSale)
	assert.Contains(t, types, model.MovementSale.Cancel())

	cancelled, err := env.trade.GetSale(actor, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxCancelled, cancelled.Status)

	// A second cancel must not double the stock back in.
	err = env.trade.CancelSale(actor, sale.ID)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
	primary, _ = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("100")))
}

func TestCancelPurchaseChecksAvailability(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-005", "Verde Guatemala")

	p, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("100"), QtySecondary: intPtr(5)}},
	})
	require.NoError(t, err)

	// Most of the purchased stock is already sold; reversing the purchase
	// would drive the balance negative.
	_, err = env.trade.CreateSale(actor, &SaleRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("80"), QtySecondary: intPtr(4)}},
	})
	require.NoError(t, err)

	err = env.trade.CancelPurchase(actor, p.ID)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// Header stays active after the failed cancel.
	got, err := env.trade.GetPurchase(actor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxActive, got.Status)
}

func TestSaleReturnAndPurchaseReturnFlow(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-006", "Statuario Venato")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("60"), QtySecondary: intPtr(3)}},
	})
	require.NoError(t, err)

	_, err = env.trade.CreateSale(actor, &SaleRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("40"), QtySecondary: intPtr(2)}},
	})
	require.NoError(t, err)

	// Customer brings one slab back.
	_, err = env.trade.CreateSaleReturn(actor, &SaleReturnRequest{
		LocationID:   &env.showroom,
		CustomerName: strPtr("Walk-in"),
		Items:        []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(1)}},
	})
	require.NoError(t, err)

	primary, secondary := env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("40")), "got %s", primary)
	assert.Equal(t, 2, secondary)

	// Send both remaining slabs back to the vendor.
	_, err = env.trade.CreatePurchaseReturn(actor, &PurchaseReturnRequest{
		LocationID: &env.showroom,
		VendorName: strPtr("Marble Co"),
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("40"), QtySecondary: intPtr(2)}},
	})
	require.NoError(t, err)

	primary, secondary = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.IsZero(), "got %s", primary)
	assert.Equal(t, 0, secondary)

	// Nothing left, so another purchase return must fail.
	_, err = env.trade.CreatePurchaseReturn(actor, &PurchaseReturnRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(1)}},
	})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
}

func TestCancelSaleReturnRestoresStockOnce(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-010", "Crema Marfil")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("100"), QtySecondary: intPtr(5)}},
	})
	require.NoError(t, err)

	sr, err := env.trade.CreateSaleReturn(actor, &SaleReturnRequest{
		LocationID:   &env.showroom,
		CustomerName: strPtr("Walk-in"),
		Items:        []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(1)}},
	})
	require.NoError(t, err)

	primary, secondary := env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	require.True(t, primary.Equal(dec("120")), "got %s", primary)
	require.Equal(t, 6, secondary)

	require.NoError(t, env.trade.CancelSaleReturn(actor, sr.ID))

	primary, secondary = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("100")), "got %s", primary)
	assert.Equal(t, 5, secondary)

	// The reversal lands under the same ref as the original, signed negative.
	entries, err := env.ledgerRepo.ListByRef(model.RefSaleReturn, sr.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	types := []model.MovementType{entries[0].MovementType, entries[1].MovementType}
	assert.Contains(t, types, model.MovementSaleReturn)
	assert.Contains(t, types, model.MovementSaleReturn.Cancel())
	for _, e := range entries {
		if e.MovementType == model.MovementSaleReturn.Cancel() {
			assert.True(t, e.QtyPrimary.Equal(dec("-20")), "got %s", e.QtyPrimary)
			require.NotNil(t, e.QtySecondary)
			assert.Equal(t, -1, *e.QtySecondary)
		}
	}

	cancelled, err := env.tradeRepo.GetSaleReturn(sr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxCancelled, cancelled.Status)

	err = env.trade.CancelSaleReturn(actor, sr.ID)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
	primary, _ = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("100")))
}

func TestCancelSaleReturnChecksAvailability(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-011", "Pietra Grey")

	sr, err := env.trade.CreateSaleReturn(actor, &SaleReturnRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(1)}},
	})
	require.NoError(t, err)

	// The returned slab is sold on; reversing the return would go negative.
	_, err = env.trade.CreateSale(actor, &SaleRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(1)}},
	})
	require.NoError(t, err)

	err = env.trade.CancelSaleReturn(actor, sr.ID)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	got, err := env.tradeRepo.GetSaleReturn(sr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxActive, got.Status)
}

func TestCancelPurchaseReturnRestoresStockOnce(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-012", "Botticino Classico")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("60"), QtySecondary: intPtr(3)}},
	})
	require.NoError(t, err)

	pr, err := env.trade.CreatePurchaseReturn(actor, &PurchaseReturnRequest{
		LocationID: &env.showroom,
		VendorName: strPtr("Marble Co"),
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("40"), QtySecondary: intPtr(2)}},
	})
	require.NoError(t, err)

	primary, secondary := env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	require.True(t, primary.Equal(dec("20")), "got %s", primary)
	require.Equal(t, 1, secondary)

	require.NoError(t, env.trade.CancelPurchaseReturn(actor, pr.ID))

	primary, secondary = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("60")), "got %s", primary)
	assert.Equal(t, 3, secondary)

	// Reversing an outbound return puts the stock back in.
	entries, err := env.ledgerRepo.ListByRef(model.RefPurchaseReturn, pr.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		if e.MovementType == model.MovementPurchaseReturn.Cancel() {
			assert.True(t, e.QtyPrimary.Equal(dec("40")), "got %s", e.QtyPrimary)
			require.NotNil(t, e.QtySecondary)
			assert.Equal(t, 2, *e.QtySecondary)
		}
	}

	cancelled, err := env.tradeRepo.GetPurchaseReturn(pr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxCancelled, cancelled.Status)

	err = env.trade.CancelPurchaseReturn(actor, pr.ID)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
	primary, _ = env.ledgerRepo.Balance(nil, item.ID, &env.showroom)
	assert.True(t, primary.Equal(dec("60")))
}

func TestStockIsPerLocation(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-007", "Travertine Classic")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.warehouse,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("100"), QtySecondary: intPtr(5)}},
	})
	require.NoError(t, err)

	// Warehouse is stocked, but selling from the showroom must fail.
	_, err = env.trade.CreateSale(actor, &SaleRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(1)}},
	})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	_, err = env.trade.CreateSale(actor, &SaleRequest{
		LocationID: &env.warehouse,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("20"), QtySecondary: intPtr(1)}},
	})
	require.NoError(t, err)
}

func TestTradePermissions(t *testing.T) {
	env := setupTestEnv(t)
	item := env.createSlab(t, "SLB-008", "Onyx Green")

	_, err := env.trade.CreatePurchase(viewerActor(), &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("10"), QtySecondary: intPtr(1)}},
	})
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Viewers can still read.
	_, err = env.trade.ListPurchases(viewerActor(), "", 0)
	require.NoError(t, err)
}

func TestPurchaseRejectsEmptyAndMissingLocation(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()
	item := env.createSlab(t, "SLB-009", "Bianco Sivec")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{},
	})
	require.Error(t, err)

	_, err = env.trade.CreatePurchase(actor, &PurchaseRequest{
		Items: []TradeLineRequest{{ItemID: item.ID, QtyPrimary: dec("10"), QtySecondary: intPtr(1)}},
	})
	require.ErrorIs(t, err, ErrLocationRequired)
}
