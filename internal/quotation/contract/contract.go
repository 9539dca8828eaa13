// Package contract holds the JSON shapes exchanged with the quotation store.
// Document fields are camelCase; stats and paging fields are snake_case.
package contract

import (
	"strings"

	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
)

type CustomerInfo struct {
	BillTo        string `json:"billTo"`
	StateName     string `json:"stateName"`
	ContactNo     string `json:"contactNo"`
	CustomerGSTIN string `json:"customerGstin,omitempty"`
	EstimateNo    string `json:"estimateNo"`
	EstimateDate  string `json:"estimateDate"`
}

type LineItem struct {
	Description string  `json:"description"`
	Qty         Decimal `json:"qty"`
	Rate        Decimal `json:"rate"`
	Amount      Decimal `json:"amount"`
}

type Totals struct {
	TotalAmount Decimal  `json:"totalAmount"`
	CGST        *Decimal `json:"cgst,omitempty"`
	SGST        *Decimal `json:"sgst,omitempty"`
	GrandTotal  *Decimal `json:"grandTotal,omitempty"`
}

// Quotation is both the stored record and the create/update request body;
// the store ignores ID on writes.
type Quotation struct {
	ID            domain.ID    `json:"id,omitempty"`
	CustomerInfo  CustomerInfo `json:"customerInfo"`
	Items         []LineItem   `json:"items"`
	Totals        *Totals      `json:"totals,omitempty"`
	QuotationDate string       `json:"quotationDate,omitempty"`
	CreatedAt     string       `json:"createdAt,omitempty"`
}

type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	PerPage int `json:"per_page,omitempty"`
}

type Stats struct {
	TotalQuotations  int     `json:"total_quotations"`
	TotalValue       Decimal `json:"total_value"`
	ThisMonth        int     `json:"this_month"`
	GrowthPercentage float64 `json:"growth_percentage"`
}

// ListResponse is the body of GET /quotations. Stats and Pagination may be absent.
type ListResponse struct {
	Quotations []Quotation `json:"quotations"`
	Stats      *Stats      `json:"stats,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type CompanyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	GSTIN       string `json:"gstin,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Email       string `json:"email,omitempty"`
}

type InventoryItem struct {
	ID          domain.ID `json:"id"`
	Description string    `json:"description"`
	Rate        Decimal   `json:"rate"`
}

// ErrorBody is the store's failure envelope.
type ErrorBody struct {
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Message prefers error, then the joined errors list.
func (b ErrorBody) Message() string {
	if msg := strings.TrimSpace(b.Error); msg != "" {
		return msg
	}
	parts := make([]string, 0, len(b.Errors))
	for _, e := range b.Errors {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, ", ")
}

type MessageBody struct {
	Message string    `json:"message,omitempty"`
	ID      domain.ID `json:"id,omitempty"`
}
