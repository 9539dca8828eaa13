// Package tax derives line amounts and document totals.
//
// All arithmetic is fixed-point and rounded half away from zero to two places
// at every step, so long item lists never accumulate float error.
package tax

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
)

const places = 2

// Calculator applies the configured rates. The zero value charges no tax.
type Calculator struct {
	rates Rates
}

func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

func (c *Calculator) Rates() Rates {
	if c == nil {
		return Rates{}
	}
	return c.rates
}

// ComputeAmount returns qty × rate rounded to two places.
func ComputeAmount(item domain.LineItem) decimal.Decimal {
	return decimal.NewFromInt(item.Qty).Mul(item.Rate).Round(places)
}

// ComputeTotals sums the item amounts and, for the invoice variant, splits tax
// into CGST and SGST. Item amounts are re-derived rather than trusted.
func (c *Calculator) ComputeTotals(items []domain.LineItem, variant domain.Variant) domain.Totals {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(ComputeAmount(item)).Round(places)
	}

	totals := domain.Totals{
		TotalAmount: total,
		CGST:        decimal.Zero,
		SGST:        decimal.Zero,
		GrandTotal:  total,
	}
	if variant != domain.VariantInvoice {
		return totals
	}

	rates := c.Rates()
	totals.CGST = total.Mul(rates.CGST).Round(places)
	totals.SGST = total.Mul(rates.SGST).Round(places)
	totals.GrandTotal = total.Add(totals.CGST).Add(totals.SGST).Round(places)
	return totals
}

// Recalculate returns a copy of q with every amount and the totals re-derived.
func (c *Calculator) Recalculate(q domain.Quotation, variant domain.Variant) domain.Quotation {
	out := q.Clone()
	for i := range out.Items {
		out.Items[i].Amount = ComputeAmount(out.Items[i])
	}
	out.Totals = c.ComputeTotals(out.Items, variant)
	return out
}
