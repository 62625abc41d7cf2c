package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-stonestock-ws/internal/model"
)

type ItemRepository interface {
	Create(item *model.Item) error
	Update(item *model.Item) error
	FindAll(category string) ([]model.Item, error)
	Search(search, category string) ([]model.Item, error)
	FindByID(id uuid.UUID) (*model.Item, error)
	// FindByIDForUpdate locks the item row inside tx until commit, so
	// availability checks and ledger writes see a stable balance.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	FindBySKU(sku string) (*model.Item, error)
	SoftDelete(id uuid.UUID, deletedBy string) error
	// UpsertBySKU inserts or updates by case-insensitive SKU match inside the
	// caller's transaction without committing; reactivates soft-deactivated
	// items. Returns "inserted" or "updated".
	UpsertBySKU(tx *gorm.DB, item *model.Item) (string, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(item *model.Item) error {
	item.SKU = strings.ToUpper(strings.TrimSpace(item.SKU))
	item.NormalizeUnits()
	return r.db.Create(item).Error
}

func (r *itemRepo) Update(item *model.Item) error {
	item.SKU = strings.ToUpper(strings.TrimSpace(item.SKU))
	item.NormalizeUnits()
	return r.db.Save(item).Error
}

func (r *itemRepo) FindAll(category string) ([]model.Item, error) {
	var items []model.Item
	q := r.db.Where("is_active = ?", true)
	if category != "" && category != "ALL" {
		q = q.Where("category = ?", strings.ToUpper(category))
	}
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *itemRepo) Search(search, category string) ([]model.Item, error) {
	var items []model.Item
	q := r.db.Where("is_active = ?", true)
	if category != "" && category != "ALL" {
		q = q.Where("category = ?", strings.ToUpper(category))
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"sku LIKE ? OR name LIKE ? OR material LIKE ? OR thickness LIKE ? OR finish LIKE ?",
			like, like, like, like, like,
		)
	}
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindBySKU(sku string) (*model.Item, error) {
	var item model.Item
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := r.db.Where("UPPER(sku) = ?", sku).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) SoftDelete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": deletedBy,
		}).Error
}

func (r *itemRepo) UpsertBySKU(tx *gorm.DB, item *model.Item) (string, error) {
	item.SKU = strings.ToUpper(strings.TrimSpace(item.SKU))
	item.NormalizeUnits()

	var existing model.Item
	err := tx.Where("UPPER(sku) = ?", item.SKU).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		item.IsActive = true
		if err := tx.Create(item).Error; err != nil {
			return "", err
		}
		return "inserted", nil
	}
	if err != nil {
		return "", err
	}

	existing.SKU = item.SKU
	existing.Name = item.Name
	existing.Category = item.Category
	existing.UnitPrimary = item.UnitPrimary
	existing.UnitSecondary = item.UnitSecondary
	existing.SqftPerUnit = item.SqftPerUnit
	existing.Material = item.Material
	existing.Thickness = item.Thickness
	existing.Finish = item.Finish
	existing.IsActive = true
	existing.UpdatedBy = item.UpdatedBy
	if err := tx.Save(&existing).Error; err != nil {
		return "", err
	}
	*item = existing
	return "updated", nil
}
