package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stonestock-ws/internal/model"
)

func TestDashboardTotalsAndLowStock(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()

	slab := env.createSlab(t, "SLB-400", "Arabescato")
	block := env.createBlock(t, "BLK-400", "Quartzite Block")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items: []TradeLineRequest{
			{ItemID: slab.ID, QtyPrimary: dec("100"), QtySecondary: intPtr(5)},
		},
	})
	require.NoError(t, err)
	_, err = env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.warehouse,
		Items: []TradeLineRequest{
			{ItemID: block.ID, QtyPrimary: dec("12")},
		},
	})
	require.NoError(t, err)

	dash, err := env.reports.Dashboard(actor)
	require.NoError(t, err)
	assert.Equal(t, 5, dash.Totals.SlabCount)
	assert.True(t, dash.Totals.SlabSqft.Equal(dec("100")))
	assert.Equal(t, 12, dash.Totals.BlockPieces)
	assert.Equal(t, int64(2), dash.Totals.PurchaseCount)
	assert.Len(t, dash.RecentLedger, 2)

	// The empty-stock item ranks first; slab stock is ranked by slab count.
	low, err := env.reports.LowStock(actor, 2, nil)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.True(t, low[0].Qty.LessThanOrEqual(low[1].Qty))

	summary, err := env.reports.LocationSummary(actor)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	byName := map[string]int{}
	for _, row := range summary {
		byName[row.LocationName] = row.SlabCount + row.BlockPieces
	}
	assert.Equal(t, 5, byName["Showroom"])
	assert.Equal(t, 12, byName["Warehouse"])

	_, err = env.reports.Dashboard(model.Actor{})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestLocationStockFilters(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()

	slab := env.createSlab(t, "SLB-401", "Crema Marfil")
	env.createBlock(t, "BLK-401", "Dolomite Block")

	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: slab.ID, QtyPrimary: dec("30"), QtySecondary: intPtr(2)}},
	})
	require.NoError(t, err)

	rows, err := env.reports.LocationStock(actor, &env.showroom, "SLAB", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SLB-401", rows[0].SKU)
	assert.True(t, rows[0].PrimaryQty.Equal(dec("30")))
	assert.Equal(t, 2, rows[0].SecondaryQty)
	assert.Equal(t, "Showroom", rows[0].LocationName)

	// Warehouse never received stock; the slab shows a zero balance there.
	rows, err = env.reports.LocationStock(actor, &env.warehouse, "SLAB", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PrimaryQty.IsZero())

	rows, err = env.reports.LocationStock(actor, nil, "", "Marfil")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestStockReportCSVExport(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()

	slab := env.createSlab(t, "SLB-402", "Pietra Grey")
	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: slab.ID, QtyPrimary: dec("55.25"), QtySecondary: intPtr(3)}},
	})
	require.NoError(t, err)

	file, err := env.exports.StockReportCSV(actor, &env.showroom, "", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	content := string(file.Data)
	assert.Contains(t, content, "SKU,Name,Category")
	assert.Contains(t, content, "SLB-402")
	assert.Contains(t, content, "55.250")
	assert.Contains(t, content, "Showroom")

	_, err = env.exports.StockReportCSV(viewerActor(), nil, "", "")
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestStockReportXLSXExport(t *testing.T) {
	env := setupTestEnv(t)
	actor := adminActor()

	slab := env.createSlab(t, "SLB-403", "Silver Travertine")
	_, err := env.trade.CreatePurchase(actor, &PurchaseRequest{
		LocationID: &env.showroom,
		Items:      []TradeLineRequest{{ItemID: slab.ID, QtyPrimary: dec("10"), QtySecondary: intPtr(1)}},
	})
	require.NoError(t, err)

	file, err := env.exports.StockReportXLSX(actor, nil, "", "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
	assert.NotEmpty(t, file.Data)
	// XLSX files are zip containers.
	assert.Equal(t, byte('P'), file.Data[0])
	assert.Equal(t, byte('K'), file.Data[1])
}
