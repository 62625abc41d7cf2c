package repository

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

// DashboardTotals holds the per-category sums shown on the dashboard cards.
type DashboardTotals struct {
	SlabCount     int             `json:"slab_count"`
	SlabSqft      decimal.Decimal `json:"slab_sqft"`
	TileBoxes     int             `json:"tile_boxes"`
	TileSqft      decimal.Decimal `json:"tile_sqft"`
	BlockPieces   int             `json:"block_pieces"`
	TablePieces   int             `json:"table_pieces"`
	PurchaseCount int64           `json:"purchase_count"`
}

// LowStockItem is one row of the low-stock ranking; Qty carries the
// category-appropriate balance (secondary for slab/tile, primary for
// block/table).
type LowStockItem struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category model.Category  `json:"category"`
	Qty      decimal.Decimal `json:"qty"`
	Unit     string          `json:"unit"`
}

// LocationSummary is one row of the location-wise stock report.
type LocationSummary struct {
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	SlabCount    int             `json:"slab_count"`
	SlabSqft     decimal.Decimal `json:"slab_sqft"`
	TileBoxes    int             `json:"tile_boxes"`
	TileSqft     decimal.Decimal `json:"tile_sqft"`
	BlockPieces  int             `json:"block_pieces"`
	TablePieces  int             `json:"table_pieces"`
}

// ItemStockRow is item-wise stock, optionally per location.
type ItemStockRow struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      model.Category  `json:"category"`
	PrimaryQty    decimal.Decimal `json:"primary_qty"`
	SecondaryQty  int             `json:"secondary_qty"`
	UnitPrimary   string          `json:"unit_primary"`
	UnitSecondary string          `json:"unit_secondary"`
	LocationName  string          `json:"location_name"`
}

type ReportRepository interface {
	DashboardTotals() (*DashboardTotals, error)
	LowStockTop(limit int, locationID *uuid.UUID) ([]LowStockItem, error)
	LocationSummary() ([]LocationSummary, error)
	ItemStockByLocation(locationID *uuid.UUID, category, search string) ([]ItemStockRow, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

type categorySums struct {
	Count int
	Sqft  decimal.Decimal
}

func (r *reportRepo) DashboardTotals() (*DashboardTotals, error) {
	totals := &DashboardTotals{SlabSqft: decimal.Zero, TileSqft: decimal.Zero}

	var slab categorySums
	if err := r.db.Model(&model.SlabInventory{}).
		Select("COALESCE(SUM(slab_count), 0) AS count, COALESCE(SUM(total_sqft), 0) AS sqft").
		Where("is_active = ?", true).Scan(&slab).Error; err != nil {
		return nil, err
	}
	totals.SlabCount, totals.SlabSqft = slab.Count, slab.Sqft

	var tile categorySums
	if err := r.db.Model(&model.TileInventory{}).
		Select("COALESCE(SUM(box_count), 0) AS count, COALESCE(SUM(total_sqft), 0) AS sqft").
		Where("is_active = ?", true).Scan(&tile).Error; err != nil {
		return nil, err
	}
	totals.TileBoxes, totals.TileSqft = tile.Count, tile.Sqft

	if err := r.db.Model(&model.BlockInventory{}).
		Select("COALESCE(SUM(piece_count), 0)").
		Where("is_active = ?", true).Scan(&totals.BlockPieces).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.TableInventory{}).
		Select("COALESCE(SUM(piece_count), 0)").
		Where("is_active = ?", true).Scan(&totals.TablePieces).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Purchase{}).Count(&totals.PurchaseCount).Error; err != nil {
		return nil, err
	}

	return totals, nil
}

type itemBalanceRow struct {
	ItemID    uuid.UUID
	Primary   decimal.Decimal
	Secondary int
}

func (r *reportRepo) itemBalances(locationID *uuid.UUID) (map[uuid.UUID]itemBalanceRow, error) {
	q := r.db.Model(&model.StockLedgerEntry{}).
		Select("item_id, COALESCE(SUM(qty_primary), 0) AS \"primary\", COALESCE(SUM(qty_secondary), 0) AS secondary").
		Group("item_id")
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}

	var rows []itemBalanceRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]itemBalanceRow, len(rows))
	for _, row := range rows {
		out[row.ItemID] = row
	}
	return out, nil
}

func (r *reportRepo) LowStockTop(limit int, locationID *uuid.UUID) ([]LowStockItem, error) {
	if limit <= 0 {
		limit = 5
	}

	var items []model.Item
	if err := r.db.Where("is_active = ?", true).Order("sku ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	balances, err := r.itemBalances(locationID)
	if err != nil {
		return nil, err
	}

	out := make([]LowStockItem, 0, len(items))
	for i := range items {
		it := &items[i]
		bal := balances[it.ID]

		row := LowStockItem{SKU: it.SKU, Name: it.Name, Category: it.Category}
		if it.Category.HasSecondaryUnit() {
			row.Qty = decimal.NewFromInt(int64(bal.Secondary))
			row.Unit = it.SecondaryUnitLabel()
		} else {
			row.Qty = bal.Primary
			row.Unit = it.PrimaryUnitLabel()
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Qty.LessThan(out[j].Qty)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type locationCategorySums struct {
	LocationID uuid.UUID
	Count      int
	Sqft       decimal.Decimal
}

func (r *reportRepo) LocationSummary() ([]LocationSummary, error) {
	var locations []model.Location
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, err
	}

	slab, err := r.groupedSums(&model.SlabInventory{}, "slab_count")
	if err != nil {
		return nil, err
	}
	tile, err := r.groupedSums(&model.TileInventory{}, "box_count")
	if err != nil {
		return nil, err
	}
	block, err := r.groupedSums(&model.BlockInventory{}, "piece_count")
	if err != nil {
		return nil, err
	}
	table, err := r.groupedSums(&model.TableInventory{}, "piece_count")
	if err != nil {
		return nil, err
	}

	out := make([]LocationSummary, 0, len(locations))
	for _, loc := range locations {
		row := LocationSummary{
			LocationID:   loc.ID,
			LocationName: loc.Name,
			SlabSqft:     decimal.Zero,
			TileSqft:     decimal.Zero,
		}
		if s, ok := slab[loc.ID]; ok {
			row.SlabCount, row.SlabSqft = s.Count, s.Sqft
		}
		if t, ok := tile[loc.ID]; ok {
			row.TileBoxes, row.TileSqft = t.Count, t.Sqft
		}
		if b, ok := block[loc.ID]; ok {
			row.BlockPieces = b.Count
		}
		if t, ok := table[loc.ID]; ok {
			row.TablePieces = t.Count
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *reportRepo) groupedSums(mdl interface{}, countCol string) (map[uuid.UUID]locationCategorySums, error) {
	sel := "location_id, COALESCE(SUM(" + countCol + "), 0) AS count"
	switch mdl.(type) {
	case *model.SlabInventory, *model.TileInventory:
		sel += ", COALESCE(SUM(total_sqft), 0) AS sqft"
	}

	var rows []locationCategorySums
	err := r.db.Model(mdl).Select(sel).
		Where("is_active = ? AND location_id IS NOT NULL", true).
		Group("location_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]locationCategorySums, len(rows))
	for _, row := range rows {
		out[row.LocationID] = row
	}
	return out, nil
}

func (r *reportRepo) ItemStockByLocation(locationID *uuid.UUID, category, search string) ([]ItemStockRow, error) {
	q := r.db.Where("is_active = ?", true)
	if category != "" && category != "ALL" {
		q = q.Where("category = ?", strings.ToUpper(category))
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("sku LIKE ? OR name LIKE ?", like, like)
	}

	var items []model.Item
	if err := q.Order("sku ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	balances, err := r.itemBalances(locationID)
	if err != nil {
		return nil, err
	}

	locationName := ""
	if locationID != nil {
		var loc model.Location
		if err := r.db.First(&loc, "id = ?", *locationID).Error; err == nil {
			locationName = loc.Name
		}
	}

	out := make([]ItemStockRow, 0, len(items))
	for i := range items {
		it := &items[i]
		bal := balances[it.ID]
		out = append(out, ItemStockRow{
			SKU:           it.SKU,
			Name:          it.Name,
			Category:      it.Category,
			PrimaryQty:    bal.Primary,
			SecondaryQty:  bal.Secondary,
			UnitPrimary:   it.PrimaryUnitLabel(),
			UnitSecondary: it.SecondaryUnitLabel(),
			LocationName:  locationName,
		})
	}
	return out, nil
}
