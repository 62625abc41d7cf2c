package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementDirection(t *testing.T) {
	inbound := []MovementType{MovementPurchase, MovementAdjustIn, MovementCorrectionIn, MovementSaleReturn}
	outbound := []MovementType{MovementSale, MovementAdjustOut, MovementDamageOut, MovementCorrectionOut, MovementPurchaseReturn}

	for _, m := range inbound {
		assert.False(t, m.Outbound(), "%s should be inbound", m)
		// Cancelling an inbound movement takes the stock back out.
		assert.True(t, m.Cancel().Outbound(), "%s cancel should be outbound", m)
	}
	for _, m := range outbound {
		assert.True(t, m.Outbound(), "%s should be outbound", m)
		assert.False(t, m.Cancel().Outbound(), "%s cancel should be inbound", m)
	}
}

func TestMovementCancelRoundTrip(t *testing.T) {
	c := MovementSale.Cancel()
	assert.Equal(t, MovementType("SALE_CANCEL"), c)

	base, ok := c.Cancelled()
	assert.True(t, ok)
	assert.Equal(t, MovementSale, base)

	_, ok = MovementSale.Cancelled()
	assert.False(t, ok)
}

func TestValidAdjustment(t *testing.T) {
	for _, m := range AdjustmentMovements {
		assert.True(t, m.ValidAdjustment())
	}
	assert.False(t, MovementPurchase.ValidAdjustment())
	assert.False(t, MovementSale.ValidAdjustment())
	assert.False(t, MovementSale.Cancel().ValidAdjustment())
}
