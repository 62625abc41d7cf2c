package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockLedgerEntry is the authoritative, append-only record of every
// stock-affecting event. Inbound movements are stored positive, outbound
// negative; a cancellation is a new entry with the exact negation of the
// original quantities. Rows are never updated or deleted.
type StockLedgerEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ItemID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	LocationID *uuid.UUID `gorm:"type:uuid;index" json:"location_id"`
	Location   *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`

	MovementType MovementType    `gorm:"type:varchar(30);not null;index" json:"movement_type"`
	QtyPrimary   decimal.Decimal `gorm:"type:decimal(12,3)" json:"qty_primary"`
	QtySecondary *int            `json:"qty_secondary"`

	// Unit labels denormalized from the item at write time.
	UnitPrimary   string  `gorm:"type:varchar(20)" json:"unit_primary"`
	UnitSecondary *string `gorm:"type:varchar(20)" json:"unit_secondary"`

	RefType *string    `gorm:"type:varchar(30);index" json:"ref_type"`
	RefID   *uuid.UUID `gorm:"type:uuid;index" json:"ref_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (StockLedgerEntry) TableName() string {
	return "stock_ledger"
}

func (e *StockLedgerEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
