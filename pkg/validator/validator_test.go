package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stonestock-ws/internal/model"
)

type catalogEntry struct {
	ItemID   uuid.UUID      `validate:"uuid_required"`
	Category model.Category `validate:"required,category"`
}

func TestUUIDRequiredRule(t *testing.T) {
	errs := ValidateStruct(&catalogEntry{Category: model.CategorySlab})
	require.Len(t, errs, 1)
	assert.Equal(t, "uuid_required", errs[0].Tag)
	assert.Equal(t, "catalogEntry.ItemID", errs[0].FailedField)

	assert.Empty(t, ValidateStruct(&catalogEntry{ItemID: uuid.New(), Category: model.CategorySlab}))
}

func TestCategoryRule(t *testing.T) {
	for _, c := range model.AllCategories {
		assert.Empty(t, ValidateStruct(&catalogEntry{ItemID: uuid.New(), Category: c}), c)
	}

	errs := ValidateStruct(&catalogEntry{ItemID: uuid.New(), Category: "GRAVEL"})
	require.Len(t, errs, 1)
	assert.Equal(t, "category", errs[0].Tag)
	assert.Equal(t, "catalogEntry.Category", errs[0].FailedField)
}
