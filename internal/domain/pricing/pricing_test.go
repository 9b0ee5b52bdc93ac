package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPrice_BaseOnly(t *testing.T) {
	sel := DefaultSelection()
	got := Price(d("4.25"), sel)
	assert.True(t, d("4.25").Equal(got))
}

func TestPrice_SizeSurcharges(t *testing.T) {
	tests := []struct {
		size string
		want string
	}{
		{SizeSmall, "5.00"},
		{SizeMedium, "5.50"},
		{SizeLarge, "6.00"},
	}
	for _, tt := range tests {
		sel := DefaultSelection()
		sel.Size = tt.size
		got := Price(d("5.00"), sel)
		assert.True(t, d(tt.want).Equal(got), "size %s: got %s", tt.size, got)
	}
}

func TestPrice_LargeWithTwoToppings(t *testing.T) {
	// $5.00 base, large (+$1.00), toppings $0.95 and $0.75 -> $7.70.
	sel := DefaultSelection()
	sel.Size = SizeLarge
	sel.Toppings = []Topping{
		{ID: 154, Name: "Boba", Price: d("0.95")},
		{ID: 160, Name: "Pudding", Price: d("0.75")},
	}
	got := Price(d("5.00"), sel)
	assert.True(t, d("7.70").Equal(got))
}

func TestPrice_SweetnessIceTemperatureFree(t *testing.T) {
	base := d("3.80")
	sel := DefaultSelection()
	want := Price(base, sel)

	sel.Sweetness = "0%"
	sel.Ice = "50%"
	sel.Temperature = TemperatureHot
	assert.True(t, want.Equal(Price(base, sel)))
}

func TestPrice_ToppingToggleRoundTrip(t *testing.T) {
	base := d("4.10")
	sel := DefaultSelection()
	before := Price(base, sel)

	sel.Toppings = append(sel.Toppings, Topping{ID: 1, Name: "Aloe", Price: d("0.65")})
	assert.True(t, before.Add(d("0.65")).Equal(Price(base, sel)))

	sel.Toppings = sel.Toppings[:0]
	assert.True(t, before.Equal(Price(base, sel)))
}

func TestPrice_ToppingOrderIndependent(t *testing.T) {
	base := d("4.10")
	a := Topping{ID: 1, Name: "Aloe", Price: d("0.65")}
	b := Topping{ID: 2, Name: "Crystal Boba", Price: d("0.95")}

	selAB := DefaultSelection()
	selAB.Toppings = []Topping{a, b}
	selBA := DefaultSelection()
	selBA.Toppings = []Topping{b, a}

	assert.True(t, Price(base, selAB).Equal(Price(base, selBA)))
}

func TestPrice_Idempotent(t *testing.T) {
	base := d("6.45")
	sel := DefaultSelection()
	sel.Size = SizeMedium
	sel.Toppings = []Topping{{ID: 3, Name: "Honey Jelly", Price: d("0.80")}}

	first := Price(base, sel)
	second := Price(base, sel)
	assert.True(t, first.Equal(second))
}

func TestPrice_BadToppingPriceIgnored(t *testing.T) {
	base := d("5.00")
	sel := DefaultSelection()
	sel.Toppings = []Topping{
		{ID: 1, Name: "Boba", Price: d("0.95")},
		{ID: 2, Name: "Mystery"}, // no price known: zero contribution
		{ID: 3, Name: "Broken", Price: d("-1.00")},
	}
	got := Price(base, sel)
	assert.True(t, d("5.95").Equal(got))
}

func TestPrice_NonNegative(t *testing.T) {
	sel := DefaultSelection()
	sel.Size = SizeLarge
	got := Price(decimal.Zero, sel)
	assert.False(t, got.IsNegative())
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidSize("large"))
	assert.False(t, ValidSize("venti"))

	assert.True(t, ValidSweetness("35%"))
	assert.False(t, ValidSweetness("10%"))

	assert.True(t, ValidIce("120%"))
	assert.False(t, ValidIce("75%"))

	assert.True(t, ValidTemperature(""))
	assert.True(t, ValidTemperature("hot"))
	assert.False(t, ValidTemperature("lukewarm"))
}
