package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCategoryUnits(t *testing.T) {
	assert.True(t, CategorySlab.HasSecondaryUnit())
	assert.True(t, CategoryTile.HasSecondaryUnit())
	assert.False(t, CategoryBlock.HasSecondaryUnit())
	assert.False(t, CategoryTable.HasSecondaryUnit())

	assert.Equal(t, UnitSqft, CategorySlab.DefaultPrimaryUnit())
	assert.Equal(t, UnitSlab, CategorySlab.DefaultSecondaryUnit())
	assert.Equal(t, UnitBox, CategoryTile.DefaultSecondaryUnit())
	assert.Equal(t, UnitPiece, CategoryBlock.DefaultPrimaryUnit())
	assert.Equal(t, "", CategoryTable.DefaultSecondaryUnit())

	assert.False(t, Category("GRAVEL").Valid())
	for _, c := range AllCategories {
		assert.True(t, c.Valid())
	}
}

func TestItemNormalizeUnits(t *testing.T) {
	slabUnit := "slab"
	sqft := decimal.NewFromInt(20)

	slab := Item{Category: CategorySlab}
	slab.NormalizeUnits()
	assert.Equal(t, UnitSqft, slab.UnitPrimary)
	assert.NotNil(t, slab.UnitSecondary)
	assert.Equal(t, UnitSlab, *slab.UnitSecondary)

	// BLOCK keeps no secondary unit or conversion, whatever was supplied.
	block := Item{Category: CategoryBlock, UnitPrimary: "sqft", UnitSecondary: &slabUnit, SqftPerUnit: &sqft}
	block.NormalizeUnits()
	assert.Equal(t, UnitPiece, block.UnitPrimary)
	assert.Nil(t, block.UnitSecondary)
	assert.Nil(t, block.SqftPerUnit)
}
