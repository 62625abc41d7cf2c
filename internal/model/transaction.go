package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TxStatus is the explicit lifecycle of a transaction header:
// ACTIVE -> (optional) CANCELLED. Nothing else.
type TxStatus string

const (
	TxActive    TxStatus = "ACTIVE"
	TxCancelled TxStatus = "CANCELLED"
)

type TxHeader struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	LocationID *uuid.UUID `gorm:"type:uuid;index" json:"location_id"`
	Location   *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Notes      *string    `gorm:"type:varchar(250)" json:"notes"`
	Status     TxStatus   `gorm:"type:varchar(20);default:'ACTIVE';not null" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	CreatedBy  string     `json:"created_by"`
}

func (h *TxHeader) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Status == "" {
		h.Status = TxActive
	}
	return
}

type TxLine struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item   *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`

	QtyPrimary   decimal.Decimal `gorm:"type:decimal(12,3)" json:"qty_primary"` // sqft OR piece
	QtySecondary *int            `json:"qty_secondary"`                         // slab/box for SLAB/TILE

	UnitPrimary   string  `gorm:"type:varchar(20)" json:"unit_primary"`
	UnitSecondary *string `gorm:"type:varchar(20)" json:"unit_secondary"`
}

func (l *TxLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ----------------------------
// PURCHASES
// ----------------------------

type Purchase struct {
	TxHeader
	VendorName *string        `gorm:"type:varchar(120)" json:"vendor_name"`
	Items      []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

type PurchaseItem struct {
	TxLine
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_id"`
}

// ----------------------------
// SALES
// ----------------------------

type Sale struct {
	TxHeader
	CustomerName *string    `gorm:"type:varchar(120)" json:"customer_name"`
	Items        []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

type SaleItem struct {
	TxLine
	SaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
}

// ----------------------------
// RETURNS
// ----------------------------

type SaleReturn struct {
	TxHeader
	CustomerName *string          `gorm:"type:varchar(120)" json:"customer_name"`
	Items        []SaleReturnItem `gorm:"foreignKey:SaleReturnID" json:"items,omitempty"`
}

type SaleReturnItem struct {
	TxLine
	SaleReturnID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_return_id"`
}

type PurchaseReturn struct {
	TxHeader
	VendorName *string              `gorm:"type:varchar(120)" json:"vendor_name"`
	Items      []PurchaseReturnItem `gorm:"foreignKey:PurchaseReturnID" json:"items,omitempty"`
}

type PurchaseReturnItem struct {
	TxLine
	PurchaseReturnID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_return_id"`
}
