package model

import "github.com/shopspring/decimal"

// Item is a SKU-identified product. SKUs are stored upper-cased and matched
// case-insensitively. BLOCK/TABLE items never carry a secondary unit or a
// conversion factor; NormalizeUnits enforces that before any write.
type Item struct {
	BaseModel
	SKU      string   `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name     string   `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Category Category `gorm:"type:varchar(20);not null" json:"category" validate:"required,category"`

	UnitPrimary   string           `gorm:"type:varchar(20)" json:"unit_primary"`   // sqft / piece
	UnitSecondary *string          `gorm:"type:varchar(20)" json:"unit_secondary"` // slab / box, SLAB/TILE only
	SqftPerUnit   *decimal.Decimal `gorm:"type:decimal(10,3)" json:"sqft_per_unit"`

	// optional product attributes
	Material  *string `gorm:"type:varchar(50)" json:"material,omitempty"`
	Thickness *string `gorm:"type:varchar(20)" json:"thickness,omitempty"`
	Finish    *string `gorm:"type:varchar(30)" json:"finish,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// NormalizeUnits applies the category unit rules in one place: BLOCK/TABLE are
// piece-only, and a missing secondary unit drops the conversion factor.
func (i *Item) NormalizeUnits() {
	if i.UnitPrimary == "" {
		i.UnitPrimary = i.Category.DefaultPrimaryUnit()
	}
	if !i.Category.HasSecondaryUnit() {
		i.UnitPrimary = UnitPiece
		i.UnitSecondary = nil
		i.SqftPerUnit = nil
		return
	}
	if i.UnitSecondary == nil || *i.UnitSecondary == "" {
		if def := i.Category.DefaultSecondaryUnit(); def != "" {
			i.UnitSecondary = &def
		}
	}
	if i.UnitSecondary == nil {
		i.SqftPerUnit = nil
	}
}

// PrimaryUnitLabel returns the stored primary unit or the category default.
func (i *Item) PrimaryUnitLabel() string {
	if i.UnitPrimary != "" {
		return i.UnitPrimary
	}
	return i.Category.DefaultPrimaryUnit()
}

// SecondaryUnitLabel returns the stored secondary unit or the category default
// ("" for BLOCK/TABLE).
func (i *Item) SecondaryUnitLabel() string {
	if i.UnitSecondary != nil && *i.UnitSecondary != "" {
		return *i.UnitSecondary
	}
	return i.Category.DefaultSecondaryUnit()
}
