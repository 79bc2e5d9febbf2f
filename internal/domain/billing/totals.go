package billing

// LineItem is a single billable entry. Quantity and Rate are normalized
// before totals are computed: quantity below 1 is raised to 1 and a
// negative rate is raised to 0.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// Amount returns the normalized quantity times the normalized rate.
func (li LineItem) Amount() float64 {
	q := li.Quantity
	if q < 1 {
		q = 1
	}
	r := li.Rate
	if r < 0 {
		r = 0
	}
	return float64(q) * r
}

type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// ComputeTotals derives invoice totals from line items plus a tax rate
// (percent) and a flat discount. The total is deliberately not clamped
// at zero: a discount larger than subtotal plus tax yields a negative
// total, matching the billing desk's manual-adjustment workflow.
func ComputeTotals(items []LineItem, taxRatePercent, discountAmount float64) Totals {
	var subtotal float64
	for _, li := range items {
		subtotal += li.Amount()
	}
	tax := subtotal * taxRatePercent / 100
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal + tax - discountAmount,
	}
}
