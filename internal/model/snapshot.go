package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Per-category inventory snapshot rows. These mirror ledger effects for fast
// category listings and dashboards; the stock ledger stays the source of truth
// for balances. Quantities are signed the same way as the ledger entry they
// were written alongside.

type SnapshotBase struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ItemID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	LocationID *uuid.UUID `gorm:"type:uuid;index" json:"location_id"`
	Location   *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Notes      *string    `gorm:"type:text" json:"notes"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (s *SnapshotBase) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// NewSnapshotBase builds the shared part of a snapshot row.
func NewSnapshotBase(itemID uuid.UUID, locationID *uuid.UUID, note string) SnapshotBase {
	base := SnapshotBase{ItemID: itemID, LocationID: locationID, IsActive: true}
	if note != "" {
		base.Notes = &note
	}
	return base
}

type SlabInventory struct {
	SnapshotBase
	SlabCount int             `gorm:"default:0;not null" json:"slab_count"`
	TotalSqft decimal.Decimal `gorm:"type:decimal(12,3);default:0;not null" json:"total_sqft"`
}

func (SlabInventory) TableName() string { return "slab_inventory" }

type TileInventory struct {
	SnapshotBase
	BoxCount  int             `gorm:"default:0;not null" json:"box_count"`
	TotalSqft decimal.Decimal `gorm:"type:decimal(12,3);default:0;not null" json:"total_sqft"`
}

func (TileInventory) TableName() string { return "tile_inventory" }

type BlockInventory struct {
	SnapshotBase
	PieceCount int `gorm:"default:0;not null" json:"piece_count"`
}

func (BlockInventory) TableName() string { return "block_inventory" }

type TableInventory struct {
	SnapshotBase
	PieceCount int `gorm:"default:0;not null" json:"piece_count"`
}

func (TableInventory) TableName() string { return "table_inventory" }
