package model

// CartItem is a validated, normalized checkout cart entry with the unit
// price already converted to minor currency units.
type CartItem struct {
	Title          string
	Quantity       int32
	UnitPriceCents int64
}

// SubtotalCents returns the line subtotal in minor units.
func (i CartItem) SubtotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}
