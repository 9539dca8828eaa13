// Package render turns a persisted quotation into a target-neutral Document
// and serializes it as HTML, PDF or XLSX. Print and download both go through
// Render, so every output path shows the same figures in the same order.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/tax"
)

const (
	notAvailable = "N/A"
	dateLayout   = "02/01/2006"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Field is one "label: value" line.
type Field struct {
	Label string
	Value string
}

// Block is a titled group of fields.
type Block struct {
	Title  string
	Fields []Field
}

// Column describes one items-table column. Span is its share of a 12-unit grid.
type Column struct {
	Header string
	Align  Align
	Span   int
	Money  bool
}

// Cell holds either text or a money amount; money is formatted per target.
type Cell struct {
	Text   string
	Money  bool
	Amount decimal.Decimal
}

type Table struct {
	Columns []Column
	Rows    [][]Cell
}

type TotalLine struct {
	Label    string
	Amount   decimal.Decimal
	Emphasis bool
}

// Company is the issuer header.
type Company struct {
	Name        string
	Description string
	Phone       string
	Address     string
	GSTIN       string
}

// Document is the rendered form of one quotation in one variant.
type Document struct {
	Variant   domain.Variant
	Title     string
	Reference string
	Company   Company
	Customer  Block
	Meta      Block
	Table     Table
	Totals    []TotalLine
	Bank      Block
	Footer    []string
	Currency  string
}

// Options carries the per-render settings that are not part of the document.
type Options struct {
	// Now supplies the render date used when the document has no date of its own.
	Now         time.Time
	Currency    string
	Rates       tax.Rates
	FooterNotes []string
}

// OptionsFromConfig derives render options for variant from document.yml.
func OptionsFromConfig(cfg config.DocumentConfig, variant domain.Variant, now time.Time) Options {
	notes := cfg.FooterNotes
	if variant == domain.VariantInvoice {
		notes = cfg.InvoiceFooterNotes
	}
	return Options{
		Now:         now,
		Currency:    cfg.Currency,
		Rates:       tax.Rates{CGST: cfg.Tax.CGST, SGST: cfg.Tax.SGST},
		FooterNotes: notes,
	}
}

// Render lays out q as a Document. It is pure: the same inputs always give the
// same Document. Totals are recomputed from the items for both variants.
func Render(q domain.Quotation, company config.CompanyInfo, bank config.BankDetails, variant domain.Variant, opts Options) Document {
	calc := tax.NewCalculator(opts.Rates)
	q = calc.Recalculate(q, variant)

	return Document{
		Variant:   variant,
		Title:     title(variant),
		Reference: q.Reference(),
		Company: Company{
			Name:        company.Name,
			Description: company.Description,
			Phone:       company.Phone,
			Address:     company.Address,
			GSTIN:       company.GSTIN,
		},
		Customer: customerBlock(q, variant),
		Meta:     metaBlock(q, company, variant, opts.Now),
		Table:    itemsTable(q.Items),
		Totals:   totalLines(q.Totals, variant, calc.Rates()),
		Bank:     bankBlock(bank),
		Footer:   footer(company, opts.FooterNotes),
		Currency: opts.Currency,
	}
}

func title(variant domain.Variant) string {
	if variant == domain.VariantInvoice {
		return "TAX INVOICE"
	}
	return "QUOTATION"
}

func customerBlock(q domain.Quotation, variant domain.Variant) Block {
	info := q.CustomerInfo
	state := strings.TrimSpace(info.StateName)
	if state == "" {
		state = domain.DefaultStateName
	}
	fields := []Field{
		{Label: "Bill To", Value: orNA(info.BillTo)},
		{Label: "Contact No", Value: orNA(info.ContactNo)},
		{Label: "State Name", Value: state},
	}
	if variant == domain.VariantInvoice || strings.TrimSpace(info.CustomerGSTIN) != "" {
		fields = append(fields, Field{Label: "Customer GSTIN", Value: orNA(info.CustomerGSTIN)})
	}
	return Block{Title: "Customer Details", Fields: fields}
}

func metaBlock(q domain.Quotation, company config.CompanyInfo, variant domain.Variant, now time.Time) Block {
	info := q.CustomerInfo
	estimateDate := now
	if info.EstimateDate != nil {
		estimateDate = *info.EstimateDate
	}

	if variant == domain.VariantInvoice {
		invoiceDate := now
		if q.QuotationDate != nil {
			invoiceDate = *q.QuotationDate
		}
		return Block{Title: "Invoice Details", Fields: []Field{
			{Label: "Invoice No", Value: InvoiceNumber(q.ID)},
			{Label: "Invoice Date", Value: FormatDate(invoiceDate)},
			{Label: "Estimate No", Value: orNA(info.EstimateNo)},
			{Label: "Estimate Date", Value: FormatDate(estimateDate)},
			{Label: "Branch", Value: orNA(company.Branch)},
			{Label: "GSTIN", Value: orNA(company.GSTIN)},
		}}
	}
	return Block{Title: "Quotation Details", Fields: []Field{
		{Label: "Estimate No", Value: orNA(info.EstimateNo)},
		{Label: "Estimate Date", Value: FormatDate(estimateDate)},
		{Label: "Branch", Value: orNA(company.Branch)},
		{Label: "GSTIN", Value: orNA(company.GSTIN)},
	}}
}

func itemsTable(items []domain.LineItem) Table {
	t := Table{
		Columns: []Column{
			{Header: "Sl.No", Align: AlignCenter, Span: 1},
			{Header: "Description", Align: AlignLeft, Span: 5},
			{Header: "Qty", Align: AlignRight, Span: 2},
			{Header: "Rate", Align: AlignRight, Span: 2, Money: true},
			{Header: "Amount", Align: AlignRight, Span: 2, Money: true},
		},
		Rows: make([][]Cell, 0, len(items)),
	}
	for i, item := range items {
		t.Rows = append(t.Rows, []Cell{
			{Text: strconv.Itoa(i + 1)},
			{Text: item.Description},
			{Text: strconv.FormatInt(item.Qty, 10)},
			{Money: true, Amount: item.Rate},
			{Money: true, Amount: item.Amount},
		})
	}
	return t
}

func totalLines(t domain.Totals, variant domain.Variant, rates tax.Rates) []TotalLine {
	if variant != domain.VariantInvoice {
		return []TotalLine{{Label: "TOTAL AMOUNT", Amount: t.TotalAmount, Emphasis: true}}
	}
	return []TotalLine{
		{Label: "Sub Total", Amount: t.TotalAmount},
		{Label: fmt.Sprintf("CGST (%s)", tax.Percent(rates.CGST)), Amount: t.CGST},
		{Label: fmt.Sprintf("SGST (%s)", tax.Percent(rates.SGST)), Amount: t.SGST},
		{Label: "GRAND TOTAL", Amount: t.GrandTotal, Emphasis: true},
	}
}

func bankBlock(bank config.BankDetails) Block {
	return Block{Title: "Bank Details", Fields: []Field{
		{Label: "Account Holder", Value: bank.AccountHolder},
		{Label: "Account Number", Value: bank.AccountNumber},
		{Label: "IFSC Code", Value: bank.IFSC},
		{Label: "Branch", Value: bank.Branch},
		{Label: "Account Type", Value: bank.AccountType},
		{Label: "Bank Name", Value: bank.BankName},
	}}
}

func footer(company config.CompanyInfo, notes []string) []string {
	out := make([]string, 0, len(notes)+2)
	for _, n := range notes {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if phone := strings.TrimSpace(company.Phone); phone != "" {
		out = append(out, "For any queries, please contact: "+phone)
	}
	if email := strings.TrimSpace(company.Email); email != "" {
		out = append(out, "Email: "+email)
	}
	return out
}

// InvoiceNumber is INV- followed by the last six characters of the id,
// zero padded.
func InvoiceNumber(id domain.ID) string {
	raw := strings.TrimSpace(id.String())
	if raw == "" {
		return notAvailable
	}
	if len(raw) > 6 {
		raw = raw[len(raw)-6:]
	}
	return "INV-" + strings.Repeat("0", 6-len(raw)) + raw
}

// FormatMoney renders an amount with the currency glyph and two decimals.
func FormatMoney(amount decimal.Decimal, currency string) string {
	return currency + amount.StringFixed(2)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Format returns the display text of a cell.
func (c Cell) Format(currency string) string {
	if c.Money {
		return FormatMoney(c.Amount, currency)
	}
	return c.Text
}

// Title is the column header, with the currency appended for money columns.
func (c Column) Title(currency string) string {
	if c.Money {
		return fmt.Sprintf("%s (%s)", c.Header, strings.TrimSpace(currency))
	}
	return c.Header
}

// GrandTotal is the emphasized total line's amount.
func (d Document) GrandTotal() decimal.Decimal {
	for _, line := range d.Totals {
		if line.Emphasis {
			return line.Amount
		}
	}
	return decimal.Zero
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
