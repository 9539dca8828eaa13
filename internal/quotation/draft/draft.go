// Package draft holds the pure edit operations behind the quotation form.
//
// Every mutator takes a document by value and returns a new one; the input is
// never modified, and qty/rate changes re-derive the amount and totals in the
// same step.
package draft

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/tax"
)

const dateLayout = "2006-01-02"

// Customer field keys accepted by SetCustomerField.
const (
	FieldBillTo        = "billTo"
	FieldStateName     = "stateName"
	FieldContactNo     = "contactNo"
	FieldCustomerGSTIN = "customerGstin"
	FieldEstimateNo    = "estimateNo"
	FieldEstimateDate  = "estimateDate"
)

// Item field keys accepted by SetItemField.
const (
	FieldDescription = "description"
	FieldQty         = "qty"
	FieldRate        = "rate"
)

// drafts carry pre-tax totals; tax lines are added by the invoice renderer.
var calculator = tax.NewCalculator(tax.Rates{})

// BlankItem is the row appended by AddItem.
func BlankItem() domain.LineItem {
	return domain.LineItem{Qty: 1, Rate: decimal.Zero, Amount: decimal.Zero}
}

// New returns an unsaved quotation with one blank row dated today.
func New(now time.Time) domain.Quotation {
	today := truncateDay(now)
	q := domain.Quotation{
		CustomerInfo: domain.CustomerInfo{EstimateDate: &today},
		Items:        []domain.LineItem{BlankItem()},
	}
	return recompute(q)
}

// Reset discards the form and starts a fresh draft.
func Reset(now time.Time) domain.Quotation {
	return New(now)
}

// FromPersisted copies a fetched record into an editable form.
func FromPersisted(q domain.Quotation) domain.Quotation {
	out := q.Clone()
	if len(out.Items) == 0 {
		out.Items = []domain.LineItem{BlankItem()}
	}
	return recompute(out)
}

func SetCustomerField(doc domain.Quotation, key, value string) (domain.Quotation, error) {
	out := doc.Clone()
	info := &out.CustomerInfo
	switch key {
	case FieldBillTo:
		info.BillTo = value
	case FieldStateName:
		info.StateName = value
	case FieldContactNo:
		info.ContactNo = value
	case FieldCustomerGSTIN:
		info.CustomerGSTIN = value
	case FieldEstimateNo:
		info.EstimateNo = value
	case FieldEstimateDate:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			info.EstimateDate = nil
			break
		}
		parsed, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return doc, domain.ErrInvalidValue
		}
		info.EstimateDate = &parsed
	default:
		return doc, domain.ErrUnknownField
	}
	return out, nil
}

// SetItemField replaces one field of the item at index.
func SetItemField(doc domain.Quotation, index int, field, value string) (domain.Quotation, error) {
	if index < 0 || index >= len(doc.Items) {
		return doc, domain.ErrItemIndex
	}
	out := doc.Clone()
	item := &out.Items[index]
	switch field {
	case FieldDescription:
		item.Description = value
		return out, nil
	case FieldQty:
		qty, err := parseQty(value)
		if err != nil {
			return doc, err
		}
		item.Qty = qty
	case FieldRate:
		rate, err := parseRate(value)
		if err != nil {
			return doc, err
		}
		item.Rate = rate
	default:
		return doc, domain.ErrUnknownField
	}
	return recompute(out), nil
}

// SetItemDescriptionAndRate applies both fields in one step so a rate can
// never lag behind its description.
func SetItemDescriptionAndRate(doc domain.Quotation, index int, description string, rate decimal.Decimal) (domain.Quotation, error) {
	if index < 0 || index >= len(doc.Items) {
		return doc, domain.ErrItemIndex
	}
	if rate.IsNegative() {
		return doc, domain.ErrInvalidValue
	}
	out := doc.Clone()
	out.Items[index].Description = description
	out.Items[index].Rate = rate
	return recompute(out), nil
}

func AddItem(doc domain.Quotation) domain.Quotation {
	out := doc.Clone()
	out.Items = append(out.Items, BlankItem())
	return recompute(out)
}

// RemoveItem drops the row at index. The last remaining row is never removed.
func RemoveItem(doc domain.Quotation, index int) domain.Quotation {
	if len(doc.Items) <= 1 || index < 0 || index >= len(doc.Items) {
		return doc
	}
	out := doc.Clone()
	out.Items = append(out.Items[:index], out.Items[index+1:]...)
	return recompute(out)
}

// Validate applies the form rules checked before any save.
func Validate(doc domain.Quotation) error {
	if strings.TrimSpace(doc.CustomerInfo.BillTo) == "" {
		return &domain.ValidationError{Field: FieldBillTo, Message: "Customer name is required"}
	}
	if strings.TrimSpace(doc.CustomerInfo.ContactNo) == "" {
		return &domain.ValidationError{Field: FieldContactNo, Message: "Contact number is required"}
	}
	if len(doc.Items) == 0 {
		return &domain.ValidationError{Field: "items", Message: "At least one item is required"}
	}
	for _, item := range doc.Items {
		if strings.TrimSpace(item.Description) == "" {
			return &domain.ValidationError{Field: FieldDescription, Message: "All items must have a description"}
		}
	}
	return nil
}

func recompute(q domain.Quotation) domain.Quotation {
	for i := range q.Items {
		q.Items[i].Amount = tax.ComputeAmount(q.Items[i])
	}
	q.Totals = calculator.ComputeTotals(q.Items, domain.VariantQuotation)
	return q
}

func parseQty(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	qty, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || qty < 0 {
		return 0, domain.ErrInvalidValue
	}
	return qty, nil
}

func parseRate(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(trimmed)
	if err != nil || rate.IsNegative() {
		return decimal.Zero, domain.ErrInvalidValue
	}
	return rate, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
