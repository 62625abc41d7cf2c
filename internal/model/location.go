package model

// Location is a named stock-holding site (Showroom, Warehouse, ...).
type Location struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// DefaultLocations seeded on first run.
var DefaultLocations = []string{"Showroom", "Warehouse"}
