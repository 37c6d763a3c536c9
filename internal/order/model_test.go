package order

import (
	"testing"

	"ftour-be/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatus_Transitions(t *testing.T) {
	all := []Status{StatusPending, StatusProcessing, StatusDelivered, StatusCancelled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusProcessing}:   true,
		{StatusPending, StatusCancelled}:    true,
		{StatusProcessing, StatusDelivered}: true,
		{StatusProcessing, StatusCancelled}: true,
	}

	for _, from := range all {
		assert.True(t, from.Valid())
		for _, to := range all {
			assert.Equal(t, allowed[[2]Status{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, Status("shipped").Valid())
}

func TestOrder_AmountDue(t *testing.T) {
	o := Order{TotalPrice: decimal.RequireFromString("23.50"), DeliveryFee: decimal.NewFromInt(10)}
	assert.Equal(t, "33.5", o.AmountDue().String())
}

func TestItemsFromLines(t *testing.T) {
	items := itemsFromLines([]cart.Line{
		{ID: "p1", Kind: cart.KindSimple, Name: "Tea", UnitPrice: decimal.NewFromInt(2), Quantity: 3},
		{ID: "package_1", Kind: cart.KindComposite, Name: "Duo", UnitPrice: decimal.NewFromInt(16), Quantity: 1,
			Components: []cart.Component{{ID: "tea", Name: "Tea", Quantity: 2}}},
	})

	if assert.Len(t, items, 2) {
		assert.Equal(t, "6", items[0].Subtotal().String())
		assert.Equal(t, cart.KindComposite, items[1].Kind)
		assert.Len(t, items[1].Components, 1)
	}
}
