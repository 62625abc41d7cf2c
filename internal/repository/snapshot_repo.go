package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

// SnapshotRepository appends and lists the denormalized per-category inventory
// rows written in lockstep with ledger entries. Appends run inside the
// caller's transaction and never commit; they carry the same signed
// quantities as the ledger entry they mirror.
type SnapshotRepository interface {
	AppendFor(tx *gorm.DB, item *model.Item, locationID *uuid.UUID, qtyPrimary decimal.Decimal, qtySecondary *int, note string) error
	ListSlabs(search string) ([]model.SlabInventory, error)
	ListTiles(search string) ([]model.TileInventory, error)
	ListBlocks(search string) ([]model.BlockInventory, error)
	ListTables(search string) ([]model.TableInventory, error)
	Deactivate(category model.Category, id uuid.UUID) error
}

type snapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepository {
	return &snapshotRepo{db}
}

// AppendFor dispatches on the item's category and writes the category-shaped
// snapshot row. SLAB/TILE carry count + sqft, BLOCK/TABLE a piece count only.
func (r *snapshotRepo) AppendFor(tx *gorm.DB, item *model.Item, locationID *uuid.UUID, qtyPrimary decimal.Decimal, qtySecondary *int, note string) error {
	count := 0
	if qtySecondary != nil {
		count = *qtySecondary
	}

	base := model.NewSnapshotBase(item.ID, locationID, note)

	switch item.Category {
	case model.CategorySlab:
		return tx.Create(&model.SlabInventory{SnapshotBase: base, SlabCount: count, TotalSqft: qtyPrimary}).Error
	case model.CategoryTile:
		return tx.Create(&model.TileInventory{SnapshotBase: base, BoxCount: count, TotalSqft: qtyPrimary}).Error
	case model.CategoryBlock:
		return tx.Create(&model.BlockInventory{SnapshotBase: base, PieceCount: int(qtyPrimary.IntPart())}).Error
	case model.CategoryTable:
		return tx.Create(&model.TableInventory{SnapshotBase: base, PieceCount: int(qtyPrimary.IntPart())}).Error
	}
	return fmt.Errorf("unknown category %q for item %s", item.Category, item.SKU)
}

func (r *snapshotRepo) ListSlabs(search string) ([]model.SlabInventory, error) {
	var rows []model.SlabInventory
	err := r.activeQuery(&model.SlabInventory{}, search).Find(&rows).Error
	return rows, err
}

func (r *snapshotRepo) ListTiles(search string) ([]model.TileInventory, error) {
	var rows []model.TileInventory
	err := r.activeQuery(&model.TileInventory{}, search).Find(&rows).Error
	return rows, err
}

func (r *snapshotRepo) ListBlocks(search string) ([]model.BlockInventory, error) {
	var rows []model.BlockInventory
	err := r.activeQuery(&model.BlockInventory{}, search).Find(&rows).Error
	return rows, err
}

func (r *snapshotRepo) ListTables(search string) ([]model.TableInventory, error) {
	var rows []model.TableInventory
	err := r.activeQuery(&model.TableInventory{}, search).Find(&rows).Error
	return rows, err
}

func (r *snapshotRepo) activeQuery(mdl interface{}, search string) *gorm.DB {
	q := r.db.Model(mdl).Preload("Item").Preload("Location").
		Where("is_active = ?", true).
		Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("item_id IN (?)",
			r.db.Model(&model.Item{}).Select("id").Where("sku LIKE ? OR name LIKE ?", like, like))
	}
	return q
}

func (r *snapshotRepo) Deactivate(category model.Category, id uuid.UUID) error {
	var mdl interface{}
	switch category {
	case model.CategorySlab:
		mdl = &model.SlabInventory{}
	case model.CategoryTile:
		mdl = &model.TileInventory{}
	case model.CategoryBlock:
		mdl = &model.BlockInventory{}
	case model.CategoryTable:
		mdl = &model.TableInventory{}
	default:
		return fmt.Errorf("unknown category %q", category)
	}
	return r.db.Model(mdl).Where("id = ?", id).Update("is_active", false).Error
}
