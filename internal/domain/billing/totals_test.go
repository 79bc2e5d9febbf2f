package billing

import "testing"

func TestComputeTotals_EmptyItems(t *testing.T) {
	got := ComputeTotals(nil, 18, 0)
	want := Totals{Subtotal: 0, TaxAmount: 0, Total: 0}
	if got != want {
		t.Errorf("ComputeTotals(nil, 18, 0) = %+v, want %+v", got, want)
	}
}

func TestComputeTotals_TaxApplied(t *testing.T) {
	got := ComputeTotals([]LineItem{{Description: "Consultation", Quantity: 2, Rate: 500}}, 18, 0)
	want := Totals{Subtotal: 1000, TaxAmount: 180, Total: 1180}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestComputeTotals_DiscountNotClamped(t *testing.T) {
	got := ComputeTotals([]LineItem{{Description: "Consultation", Quantity: 1, Rate: 100}}, 0, 150)
	want := Totals{Subtotal: 100, TaxAmount: 0, Total: -50}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestComputeTotals_QuantityClampedUpToOne(t *testing.T) {
	for _, q := range []int{0, -3} {
		got := ComputeTotals([]LineItem{{Description: "X-Ray", Quantity: q, Rate: 250}}, 0, 0)
		if got.Subtotal != 250 {
			t.Errorf("quantity %d: subtotal = %v, want 250", q, got.Subtotal)
		}
	}
}

func TestComputeTotals_NegativeRateClampedToZero(t *testing.T) {
	got := ComputeTotals([]LineItem{
		{Description: "Consultation", Quantity: 1, Rate: 300},
		{Description: "Adjustment", Quantity: 1, Rate: -100},
	}, 0, 0)
	if got.Subtotal != 300 {
		t.Errorf("subtotal = %v, want 300", got.Subtotal)
	}
}

func TestComputeTotals_MultipleItems(t *testing.T) {
	items := []LineItem{
		{Description: "Consultation", Quantity: 1, Rate: 500},
		{Description: "Blood Test", Quantity: 3, Rate: 150},
		{Description: "X-Ray", Quantity: 1, Rate: 250},
	}
	got := ComputeTotals(items, 10, 100)
	if got.Subtotal != 1200 {
		t.Errorf("subtotal = %v, want 1200", got.Subtotal)
	}
	if got.TaxAmount != 120 {
		t.Errorf("tax = %v, want 120", got.TaxAmount)
	}
	if got.Total != 1220 {
		t.Errorf("total = %v, want 1220", got.Total)
	}
}

func TestLineItem_Amount(t *testing.T) {
	tests := []struct {
		name string
		li   LineItem
		want float64
	}{
		{"normal", LineItem{Quantity: 2, Rate: 500}, 1000},
		{"zero quantity raised", LineItem{Quantity: 0, Rate: 500}, 500},
		{"negative rate zeroed", LineItem{Quantity: 2, Rate: -10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.li.Amount(); got != tt.want {
				t.Errorf("Amount() = %v, want %v", got, tt.want)
			}
		})
	}
}
