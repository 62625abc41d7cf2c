package database

import (
	"log"

	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

// AutoMigrate creates the schema idempotently, then applies the additive
// migrations that AutoMigrate alone would miss on older databases.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Item{},
		&model.Location{},
		&model.StockLedgerEntry{},
		&model.SlabInventory{},
		&model.TileInventory{},
		&model.BlockInventory{},
		&model.TableInventory{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SaleReturn{},
		&model.SaleReturnItem{},
		&model.PurchaseReturn{},
		&model.PurchaseReturnItem{},
		&model.User{},
		&model.Role{},
		&model.Privilege{},
	); err != nil {
		return err
	}
	return ensureItemExtraColumns(db)
}

// ensureItemExtraColumns adds the optional descriptive item columns when they
// are missing. Nullable ALTER TABLE ADD COLUMN only, existing data untouched.
func ensureItemExtraColumns(db *gorm.DB) error {
	item := &model.Item{}
	for _, col := range []string{"material", "thickness", "finish"} {
		if db.Migrator().HasColumn(item, col) {
			continue
		}
		if err := db.Migrator().AddColumn(item, col); err != nil {
			return err
		}
		log.Printf("Added missing items column %q", col)
	}
	return nil
}

// SeedLocations creates the default stock locations if the table is empty.
func SeedLocations(db *gorm.DB) error {
	for _, name := range model.DefaultLocations {
		var existing model.Location
		err := db.Where("name = ?", name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&model.Location{Name: name, IsActive: true}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
