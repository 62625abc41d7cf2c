package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

type LedgerRepository interface {
	// Append writes one ledger row inside the caller's transaction. It never
	// commits; multi-line transactions share one commit at the orchestrator.
	Append(tx *gorm.DB, entry *model.StockLedgerEntry) error
	// Balance sums all signed ledger quantities for an item, optionally
	// filtered by location. NULL secondary quantities count as zero.
	Balance(tx *gorm.DB, itemID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, int)
	List(search string, limit int) ([]model.StockLedgerEntry, error)
	ListByRef(refType string, refID uuid.UUID) ([]model.StockLedgerEntry, error)
	ListAdjustments(search string, limit int) ([]model.StockLedgerEntry, error)
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) Append(tx *gorm.DB, entry *model.StockLedgerEntry) error {
	return tx.Create(entry).Error
}

type balanceRow struct {
	Primary   decimal.Decimal
	Secondary int
}

func (r *ledgerRepo) Balance(tx *gorm.DB, itemID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, int) {
	if tx == nil {
		tx = r.db
	}

	q := tx.Model(&model.StockLedgerEntry{}).
		Select("COALESCE(SUM(qty_primary), 0) AS \"primary\", COALESCE(SUM(qty_secondary), 0) AS secondary").
		Where("item_id = ?", itemID)
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}

	var row balanceRow
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, 0
	}
	return row.Primary, row.Secondary
}

func (r *ledgerRepo) List(search string, limit int) ([]model.StockLedgerEntry, error) {
	var entries []model.StockLedgerEntry
	q := r.db.Preload("Item").Preload("Location").Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("movement_type LIKE ? OR COALESCE(ref_type, '') LIKE ?", like, like)
	}
	if limit <= 0 {
		limit = 200
	}
	err := q.Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) ListByRef(refType string, refID uuid.UUID) ([]model.StockLedgerEntry, error) {
	var entries []model.StockLedgerEntry
	err := r.db.Where("ref_type = ? AND ref_id = ?", refType, refID).
		Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) ListAdjustments(search string, limit int) ([]model.StockLedgerEntry, error) {
	var entries []model.StockLedgerEntry
	q := r.db.Preload("Item").Preload("Location").
		Where("ref_type = ?", model.RefAdjustment).
		Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Joins("JOIN items ON items.id = stock_ledger.item_id").
			Where("stock_ledger.movement_type LIKE ? OR items.sku LIKE ? OR items.name LIKE ?", like, like, like)
	}
	if limit <= 0 {
		limit = 300
	}
	err := q.Limit(limit).Find(&entries).Error
	return entries, err
}
