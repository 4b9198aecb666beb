package orders

import "github.com/shopspring/decimal"

// DefaultTaxRate is the 10% bill tax applied when no rate is configured.
var DefaultTaxRate = decimal.New(1, -1)

// Totals is the computed bill for a line-item list. Values are kept at full
// precision; rounding happens only when formatting for display.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// FormattedTotals is the presentation form of Totals, rounded to cents.
type FormattedTotals struct {
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	GrandTotal string `json:"grandTotal"`
}

// CalculateTotals sums qty*price over all rows and applies the tax rate.
// An empty list yields zero totals.
func CalculateTotals(items []LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}

func (t Totals) Formatted() FormattedTotals {
	return FormattedTotals{
		Subtotal:   t.Subtotal.StringFixed(2),
		Tax:        t.Tax.StringFixed(2),
		GrandTotal: t.GrandTotal.StringFixed(2),
	}
}
