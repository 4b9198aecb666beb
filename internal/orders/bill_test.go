package orders

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(qty int, price string) LineItem {
	return LineItem{Name: "x", Qty: qty, Price: decimal.RequireFromString(price)}
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []LineItem
		wantSubtotal string
		wantTax      string
		wantGrand    string
	}{
		{
			name:         "two items at ten percent",
			items:        []LineItem{item(2, "100"), item(1, "50")},
			wantSubtotal: "250.00",
			wantTax:      "25.00",
			wantGrand:    "275.00",
		},
		{
			name:         "empty list yields zero totals",
			items:        nil,
			wantSubtotal: "0.00",
			wantTax:      "0.00",
			wantGrand:    "0.00",
		},
		{
			name:         "fractional prices keep precision until formatting",
			items:        []LineItem{item(3, "3.33"), item(1, "0.01")},
			wantSubtotal: "10.00",
			wantTax:      "1.00",
			wantGrand:    "11.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.items, DefaultTaxRate).Formatted()
			if got.Subtotal != tt.wantSubtotal {
				t.Errorf("subtotal = %s, want %s", got.Subtotal, tt.wantSubtotal)
			}
			if got.Tax != tt.wantTax {
				t.Errorf("tax = %s, want %s", got.Tax, tt.wantTax)
			}
			if got.GrandTotal != tt.wantGrand {
				t.Errorf("grand total = %s, want %s", got.GrandTotal, tt.wantGrand)
			}
		})
	}
}

func TestCalculateTotalsIdentity(t *testing.T) {
	items := []LineItem{item(7, "19.99"), item(2, "4.05"), item(1, "0.10")}
	totals := CalculateTotals(items, DefaultTaxRate)

	wantGrand := totals.Subtotal.Add(totals.Subtotal.Mul(DefaultTaxRate))
	if !totals.GrandTotal.Equal(wantGrand) {
		t.Errorf("grand total = %s, want subtotal + subtotal*rate = %s", totals.GrandTotal, wantGrand)
	}
}

func TestCalculateTotalsConfigurableRate(t *testing.T) {
	items := []LineItem{item(1, "200")}
	totals := CalculateTotals(items, decimal.RequireFromString("0.05"))

	if got := totals.Tax.StringFixed(2); got != "10.00" {
		t.Errorf("tax at 5%% = %s, want 10.00", got)
	}
	if got := totals.GrandTotal.StringFixed(2); got != "210.00" {
		t.Errorf("grand total at 5%% = %s, want 210.00", got)
	}
}

func TestCalculateTotalsNoDriftOverManyRows(t *testing.T) {
	// 0.1 added a thousand times is exactly 100 with decimals; floats drift.
	items := make([]LineItem, 1000)
	for i := range items {
		items[i] = item(1, "0.1")
	}
	totals := CalculateTotals(items, DefaultTaxRate)

	if !totals.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("subtotal = %s, want exactly 100", totals.Subtotal)
	}
	if !totals.GrandTotal.Equal(decimal.NewFromInt(110)) {
		t.Errorf("grand total = %s, want exactly 110", totals.GrandTotal)
	}
}
