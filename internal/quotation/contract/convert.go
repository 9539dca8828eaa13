package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/config"
	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/pagination"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/tax"
)

const DateLayout = "2006-01-02"

var ErrInvalidQty = errors.New("invalid_qty")

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseDate accepts the date and timestamp shapes the store emits. Empty
// input yields nil.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", raw)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FromDomain builds the wire form of q. Only the pre-tax total is sent.
func FromDomain(q domain.Quotation) Quotation {
	items := make([]LineItem, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, LineItem{
			Description: item.Description,
			Qty:         NewDecimal(decimal.NewFromInt(item.Qty)),
			Rate:        NewDecimal(item.Rate),
			Amount:      NewDecimal(tax.ComputeAmount(item)),
		})
	}
	return Quotation{
		ID: q.ID,
		CustomerInfo: CustomerInfo{
			BillTo:        q.CustomerInfo.BillTo,
			StateName:     q.CustomerInfo.StateName,
			ContactNo:     q.CustomerInfo.ContactNo,
			CustomerGSTIN: q.CustomerInfo.CustomerGSTIN,
			EstimateNo:    q.CustomerInfo.EstimateNo,
			EstimateDate:  formatDate(q.CustomerInfo.EstimateDate),
		},
		Items:         items,
		Totals:        &Totals{TotalAmount: NewDecimal(q.Totals.TotalAmount)},
		QuotationDate: formatTimestamp(q.QuotationDate),
		CreatedAt:     formatTimestamp(q.CreatedAt),
	}
}

// ToDomain converts a stored record. Amounts and totals are re-derived from
// qty and rate so a record can never display inconsistent figures.
func (q Quotation) ToDomain() (domain.Quotation, error) {
	estimateDate, err := ParseDate(q.CustomerInfo.EstimateDate)
	if err != nil {
		return domain.Quotation{}, fmt.Errorf("estimateDate: %w", err)
	}
	quotationDate, err := ParseDate(q.QuotationDate)
	if err != nil {
		return domain.Quotation{}, fmt.Errorf("quotationDate: %w", err)
	}
	createdAt, err := ParseDate(q.CreatedAt)
	if err != nil {
		return domain.Quotation{}, fmt.Errorf("createdAt: %w", err)
	}

	items := make([]domain.LineItem, 0, len(q.Items))
	for i, item := range q.Items {
		qty, err := wholeQty(item.Qty.Decimal)
		if err != nil {
			return domain.Quotation{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, domain.LineItem{
			Description: item.Description,
			Qty:         qty,
			Rate:        item.Rate.Decimal,
		})
	}

	out := domain.Quotation{
		ID: q.ID,
		CustomerInfo: domain.CustomerInfo{
			BillTo:        q.CustomerInfo.BillTo,
			StateName:     q.CustomerInfo.StateName,
			ContactNo:     q.CustomerInfo.ContactNo,
			CustomerGSTIN: q.CustomerInfo.CustomerGSTIN,
			EstimateNo:    q.CustomerInfo.EstimateNo,
			EstimateDate:  estimateDate,
		},
		Items:         items,
		QuotationDate: quotationDate,
		CreatedAt:     createdAt,
	}
	return tax.NewCalculator(tax.Rates{}).Recalculate(out, domain.VariantQuotation), nil
}

func wholeQty(d decimal.Decimal) (int64, error) {
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, ErrInvalidQty
	}
	return d.IntPart(), nil
}

// State converts the optional pagination block; a missing block is zero-filled.
func (r ListResponse) State() pagination.State {
	if r.Pagination == nil {
		return pagination.Normalize(pagination.State{})
	}
	return pagination.Normalize(pagination.State{
		CurrentPage:  r.Pagination.Page,
		TotalPages:   r.Pagination.Pages,
		TotalItems:   r.Pagination.Total,
		ItemsPerPage: r.Pagination.PerPage,
	})
}

// StatsOrZero returns the stats block, zero-filled when absent.
func (r ListResponse) StatsOrZero() Stats {
	if r.Stats == nil {
		return Stats{TotalValue: NewDecimal(decimal.Zero)}
	}
	return *r.Stats
}

func (c CompanyInfo) ToConfig() config.CompanyInfo {
	return config.CompanyInfo{
		Name:        c.Name,
		Description: c.Description,
		Phone:       c.Phone,
		Address:     c.Address,
		GSTIN:       c.GSTIN,
		Branch:      c.Branch,
		Email:       c.Email,
	}
}

func CompanyFromConfig(c config.CompanyInfo) CompanyInfo {
	return CompanyInfo{
		Name:        c.Name,
		Description: c.Description,
		Phone:       c.Phone,
		Address:     c.Address,
		GSTIN:       c.GSTIN,
		Branch:      c.Branch,
		Email:       c.Email,
	}
}

func (i InventoryItem) ToDomain() inventorydomain.Item {
	return inventorydomain.Item{
		ID:          i.ID.String(),
		Description: i.Description,
		Rate:        i.Rate.Decimal,
	}
}

func InventoryItemFromDomain(i inventorydomain.Item) InventoryItem {
	return InventoryItem{
		ID:          domain.ID(i.ID),
		Description: i.Description,
		Rate:        NewDecimal(i.Rate),
	}
}
