// Package pricing computes the unit price of a configured drink from its base
// price and modifier selection. All arithmetic stays in decimal form; rounding
// to 2 decimal places is the serialization edge's job, so repeated
// recalculation across add/remove cycles never compounds rounding error.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Drink sizes.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Serving temperatures (kiosk only).
const (
	TemperatureIced = "iced"
	TemperatureHot  = "hot"
)

// Size surcharges. Small carries none.
var (
	mediumSurcharge = decimal.NewFromFloat(0.50)
	largeSurcharge  = decimal.NewFromInt(1)
)

// Sweetness and ice levels carry no price delta; they are validated here so
// the cart rejects garbage before it ever reaches persistence.
var (
	sweetnessLevels = map[string]bool{
		"0%": true, "35%": true, "50%": true, "75%": true, "100%": true, "120%": true,
	}
	iceLevels = map[string]bool{
		"0%": true, "50%": true, "100%": true, "120%": true,
	}
)

// Topping references a topping menu item. Price travels with the reference so
// pricing never needs a catalog lookup.
type Topping struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Selection holds the modifiers attached to one cart line.
type Selection struct {
	Size        string    `json:"size"`
	Temperature string    `json:"temperature,omitempty"`
	Sweetness   string    `json:"sweetness"`
	Ice         string    `json:"ice"`
	Toppings    []Topping `json:"toppings,omitempty"`
}

// DefaultSelection returns the selection applied when a customization popup
// opens: small, iced, full sweetness, full ice, no toppings.
func DefaultSelection() Selection {
	return Selection{
		Size:        SizeSmall,
		Temperature: TemperatureIced,
		Sweetness:   "100%",
		Ice:         "100%",
	}
}

// ValidSize reports whether s is a recognized drink size.
func ValidSize(s string) bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// ValidSweetness reports whether s is a recognized sweetness level.
func ValidSweetness(s string) bool { return sweetnessLevels[s] }

// ValidIce reports whether s is a recognized ice level.
func ValidIce(s string) bool { return iceLevels[s] }

// ValidTemperature reports whether s is a recognized serving temperature.
// The empty string is allowed: the cashier surface has no temperature choice.
func ValidTemperature(s string) bool {
	return s == "" || s == TemperatureIced || s == TemperatureHot
}

// Price computes the unit price for a drink: base price plus the size
// surcharge plus the sum of topping prices. Sweetness, ice, and temperature
// are free. A topping whose price is missing or negative contributes zero
// rather than failing the computation; one bad modifier must not block
// pricing of the rest.
func Price(base decimal.Decimal, sel Selection) decimal.Decimal {
	total := base

	switch sel.Size {
	case SizeMedium:
		total = total.Add(mediumSurcharge)
	case SizeLarge:
		total = total.Add(largeSurcharge)
	}

	for _, t := range sel.Toppings {
		if t.Price.IsNegative() {
			continue
		}
		total = total.Add(t.Price)
	}

	return total
}
