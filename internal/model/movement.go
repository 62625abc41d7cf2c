package model

import "strings"

// MovementType tags every stock ledger entry. The sign of the stored quantities
// encodes direction; the type records why the stock moved.
type MovementType string

const (
	MovementPurchase       MovementType = "PURCHASE"
	MovementSale           MovementType = "SALE"
	MovementAdjustIn       MovementType = "ADJUST_IN"
	MovementAdjustOut      MovementType = "ADJUST_OUT"
	MovementDamageOut      MovementType = "DAMAGE_OUT"
	MovementCorrectionIn   MovementType = "CORRECTION_IN"
	MovementCorrectionOut  MovementType = "CORRECTION_OUT"
	MovementSaleReturn     MovementType = "SALE_RETURN"
	MovementPurchaseReturn MovementType = "PURCHASE_RETURN"
)

const cancelSuffix = "_CANCEL"

// AdjustmentMovements are the types accepted by the adjustment orchestrator.
var AdjustmentMovements = []MovementType{
	MovementAdjustIn,
	MovementAdjustOut,
	MovementDamageOut,
	MovementCorrectionIn,
	MovementCorrectionOut,
}

func (m MovementType) ValidAdjustment() bool {
	for _, a := range AdjustmentMovements {
		if m == a {
			return true
		}
	}
	return false
}

// Outbound reports whether the movement reduces stock, i.e. its ledger
// quantities are written negative. A cancellation inverts the direction of the
// movement it reverses.
func (m MovementType) Outbound() bool {
	if base, ok := m.Cancelled(); ok {
		return !base.Outbound()
	}
	switch m {
	case MovementSale, MovementAdjustOut, MovementDamageOut, MovementCorrectionOut, MovementPurchaseReturn:
		return true
	}
	return false
}

// Cancel returns the _CANCEL counterpart of m.
func (m MovementType) Cancel() MovementType {
	return m + cancelSuffix
}

// Cancelled reports whether m is a _CANCEL type and returns the original type.
func (m MovementType) Cancelled() (MovementType, bool) {
	s := string(m)
	if strings.HasSuffix(s, cancelSuffix) {
		return MovementType(strings.TrimSuffix(s, cancelSuffix)), true
	}
	return m, false
}

// Reference types stored on ledger entries, pointing at the originating
// transaction header.
const (
	RefPurchase       = "purchase"
	RefSale           = "sale"
	RefSaleReturn     = "sale_return"
	RefPurchaseReturn = "purchase_return"
	RefAdjustment     = "adjustment"
)
