package model

// Category determines the unit shape of an item. SLAB and TILE are measured in
// square feet with a count unit (slab/box) on the side; BLOCK and TABLE are
// counted in pieces only.
type Category string

const (
	CategorySlab  Category = "SLAB"
	CategoryTile  Category = "TILE"
	CategoryBlock Category = "BLOCK"
	CategoryTable Category = "TABLE"
)

// Unit labels
const (
	UnitSqft  = "sqft"
	UnitPiece = "piece"
	UnitSlab  = "slab"
	UnitBox   = "box"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySlab, CategoryTile, CategoryBlock, CategoryTable:
		return true
	}
	return false
}

// HasSecondaryUnit is the single place that encodes the category rule: only
// SLAB/TILE items carry a count unit next to their sqft quantity.
func (c Category) HasSecondaryUnit() bool {
	return c == CategorySlab || c == CategoryTile
}

func (c Category) DefaultPrimaryUnit() string {
	if c.HasSecondaryUnit() {
		return UnitSqft
	}
	return UnitPiece
}

func (c Category) DefaultSecondaryUnit() string {
	switch c {
	case CategorySlab:
		return UnitSlab
	case CategoryTile:
		return UnitBox
	}
	return ""
}

// AllCategories in display order.
var AllCategories = []Category{CategorySlab, CategoryTile, CategoryBlock, CategoryTable}
