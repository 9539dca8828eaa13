// Package domain contains the quotation document model shared by the editor,
// calculator, renderer and store client.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStateName is shown when a customer has no state recorded.
const DefaultStateName = "Tamil Nadu"

// Variant selects the rendering mode of a document.
type Variant string

const (
	VariantQuotation Variant = "quotation"
	VariantInvoice   Variant = "invoice"
)

// Title returns the document title used in headings and file names.
func (v Variant) Title() string {
	if v == VariantInvoice {
		return "Invoice"
	}
	return "Quotation"
}

// ParseVariant maps a request value onto a Variant. Empty input selects the quotation.
func ParseVariant(raw string) (Variant, error) {
	switch Variant(raw) {
	case "", VariantQuotation:
		return VariantQuotation, nil
	case VariantInvoice:
		return VariantInvoice, nil
	default:
		return "", ErrInvalidVariant
	}
}

// CustomerInfo is owned by exactly one quotation.
type CustomerInfo struct {
	BillTo        string
	StateName     string
	ContactNo     string
	CustomerGSTIN string
	EstimateNo    string
	EstimateDate  *time.Time
}

// LineItem is a priced row. Amount is always Qty × Rate rounded to two places.
type LineItem struct {
	Description string
	Qty         int64
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Totals are derived from the items and never edited directly.
type Totals struct {
	TotalAmount decimal.Decimal
	CGST        decimal.Decimal
	SGST        decimal.Decimal
	GrandTotal  decimal.Decimal
}

// Quotation is the aggregate root. A zero ID marks an unsaved draft.
type Quotation struct {
	ID            ID
	CustomerInfo  CustomerInfo
	Items         []LineItem
	Totals        Totals
	QuotationDate *time.Time
	CreatedAt     *time.Time
}

// IsDraft reports whether the store has not assigned an id yet.
func (q Quotation) IsDraft() bool {
	return q.ID.IsZero()
}

// Reference is the estimate number when present, otherwise the id.
func (q Quotation) Reference() string {
	if q.CustomerInfo.EstimateNo != "" {
		return q.CustomerInfo.EstimateNo
	}
	return q.ID.String()
}

// Clone returns a copy that shares no mutable state with q.
func (q Quotation) Clone() Quotation {
	out := q
	out.Items = make([]LineItem, len(q.Items))
	copy(out.Items, q.Items)
	if q.CustomerInfo.EstimateDate != nil {
		d := *q.CustomerInfo.EstimateDate
		out.CustomerInfo.EstimateDate = &d
	}
	return out
}
