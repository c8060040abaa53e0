package domain

// UnitPriceCents computes the effective unit price of a stock record from its
// list price and percentage discount. Integer cent math, fractional cents
// truncated. Out-of-range discounts are treated as no discount.
func UnitPriceCents(listCents int64, discountPct int) int64 {
	if discountPct <= 0 || discountPct > 100 {
		return listCents
	}
	return listCents * int64(100-discountPct) / 100
}

// LineTotalCents computes a line total from a snapshotted unit price and quantity.
func LineTotalCents(unitCents int64, quantity int) int64 {
	if quantity <= 0 {
		return 0
	}
	return unitCents * int64(quantity)
}
