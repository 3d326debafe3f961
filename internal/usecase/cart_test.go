package usecase

import "testing"

func TestNormalizeCartComputesMinorUnits(t *testing.T) {
	items := NormalizeCart([]CartInput{
		{Title: "Blend A", Quantity: 2, UnitPrice: "5.50"},
	})
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[0].UnitPriceCents != 550 {
		t.Fatalf("unexpected item %+v", items[0])
	}
	if got := items[0].SubtotalCents(); got != 1100 {
		t.Fatalf("expected subtotal 1100, got %d", got)
	}
}

func TestNormalizeCartCoercesPriceStrings(t *testing.T) {
	cases := map[string]int64{
		"$5.50":     550,
		"ARS 12.00": 1200,
		"1,234.56":  123456,
		"  3.5  ":   350,
		"7":         700,
	}
	for raw, want := range cases {
		items := NormalizeCart([]CartInput{{Title: "x", Quantity: 1, UnitPrice: raw}})
		if len(items) != 1 {
			t.Fatalf("%q: expected item to survive", raw)
		}
		if items[0].UnitPriceCents != want {
			t.Fatalf("%q: expected %d cents, got %d", raw, want, items[0].UnitPriceCents)
		}
	}
}

func TestNormalizeCartDropsInvalidItems(t *testing.T) {
	items := NormalizeCart([]CartInput{
		{Title: "   ", Quantity: 1, UnitPrice: "5.00"},
		{Title: "zero qty", Quantity: 0, UnitPrice: "5.00"},
		{Title: "negative qty", Quantity: -2, UnitPrice: "5.00"},
		{Title: "no digits", Quantity: 1, UnitPrice: "free"},
		{Title: "below floor", Quantity: 1, UnitPrice: "0.001"},
		{Title: "negative price", Quantity: 1, UnitPrice: "-4.00"},
	})
	if len(items) != 0 {
		t.Fatalf("expected everything dropped, got %d items", len(items))
	}
}

func TestNormalizeCartFloorsFractionalQuantities(t *testing.T) {
	items := NormalizeCart([]CartInput{
		{Title: "a", Quantity: 2.9, UnitPrice: "1.00"},
		{Title: "b", Quantity: 0.5, UnitPrice: "1.00"},
	})
	if len(items) != 2 {
		t.Fatalf("expected two items, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected 2.9 to floor to 2, got %d", items[0].Quantity)
	}
	if items[1].Quantity != 1 {
		t.Fatalf("expected 0.5 to clamp to 1, got %d", items[1].Quantity)
	}
}

func TestToMinorUnitsUsesBankersRounding(t *testing.T) {
	items := NormalizeCart([]CartInput{
		{Title: "a", Quantity: 1, UnitPrice: "0.125"},
		{Title: "b", Quantity: 1, UnitPrice: "0.135"},
	})
	if items[0].UnitPriceCents != 12 {
		t.Fatalf("expected 0.125 to round to 12, got %d", items[0].UnitPriceCents)
	}
	if items[1].UnitPriceCents != 14 {
		t.Fatalf("expected 0.135 to round to 14, got %d", items[1].UnitPriceCents)
	}
}

func TestFromMinorUnits(t *testing.T) {
	if got := FromMinorUnits(1100).String(); got != "11" {
		t.Fatalf("expected 11, got %s", got)
	}
	if got := FromMinorUnits(1).StringFixed(2); got != "0.01" {
		t.Fatalf("expected 0.01, got %s", got)
	}
}
