package usecase

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// CartInput is one raw checkout cart entry as submitted by the client.
// UnitPrice arrives as free text: plain numbers, or strings with currency
// symbols and separators.
type CartInput struct {
	Title     string
	Quantity  float64
	UnitPrice string
}

const minUnitPrice = "0.01"

// NormalizeCart validates and coerces raw cart entries. Items with an
// empty title, a non-positive quantity or a unit price below 0.01 are
// silently dropped; fractional quantities truncate down, with a floor of
// one unit.
func NormalizeCart(items []CartInput) []model.CartItem {
	floor := decimal.RequireFromString(minUnitPrice)

	var result []model.CartItem
	for _, in := range items {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			continue
		}

		if in.Quantity <= 0 || math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) {
			continue
		}
		qty := int32(math.Floor(in.Quantity))
		if qty < 1 {
			qty = 1
		}

		price, ok := parseUnitPrice(in.UnitPrice)
		if !ok || price.LessThan(floor) {
			continue
		}

		result = append(result, model.CartItem{
			Title:          title,
			Quantity:       qty,
			UnitPriceCents: toMinorUnits(price),
		})
	}
	return result
}

// parseUnitPrice coerces a price token by stripping everything that is not
// a digit, a decimal point or a sign.
func parseUnitPrice(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// toMinorUnits converts a major-unit price to integer minor units using
// banker's rounding.
func toMinorUnits(d decimal.Decimal) int64 {
	return d.RoundBank(2).Shift(2).IntPart()
}

// FromMinorUnits converts minor units back to a major-unit decimal.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}
