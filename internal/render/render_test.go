package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var renderDate = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleQuotation() domain.Quotation {
	estimate := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	return domain.Quotation{
		ID: "6650c1f2a9b3e4d5f6a7b8c9",
		CustomerInfo: domain.CustomerInfo{
			BillTo:       "Raja Textiles",
			ContactNo:    "9876543210",
			EstimateNo:   "EST-042",
			EstimateDate: &estimate,
		},
		Items: []domain.LineItem{
			{Description: "Mosquito Net 4x6", Qty: 3, Rate: dec("150.00"), Amount: dec("1")},
		},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(Params{
		Holder: config.NewStaticDocumentConfigHolder(config.DefaultDocumentConfig()),
		Clock:  clock.NewFakeClock(renderDate),
		Log:    zap.NewNop(),
	})
}

func TestRenderQuotationTotals(t *testing.T) {
	cfg := config.DefaultDocumentConfig()
	doc := Render(sampleQuotation(), cfg.Company, cfg.Bank, domain.VariantQuotation, OptionsFromConfig(cfg, domain.VariantQuotation, renderDate))

	assert.Equal(t, "QUOTATION", doc.Title)
	require.Len(t, doc.Totals, 1)
	assert.Equal(t, "TOTAL AMOUNT", doc.Totals[0].Label)
	assert.Equal(t, "450.00", doc.Totals[0].Amount.StringFixed(2))
	assert.Equal(t, "450.00", doc.Table.Rows[0][4].Amount.StringFixed(2), "stale amount is recomputed")
}

func TestRenderInvoiceTotals(t *testing.T) {
	cfg := config.DefaultDocumentConfig()
	doc := Render(sampleQuotation(), cfg.Company, cfg.Bank, domain.VariantInvoice, OptionsFromConfig(cfg, domain.VariantInvoice, renderDate))

	assert.Equal(t, "TAX INVOICE", doc.Title)
	require.Len(t, doc.Totals, 4)
	assert.Equal(t, "Sub Total", doc.Totals[0].Label)
	assert.Equal(t, "450.00", doc.Totals[0].Amount.StringFixed(2))
	assert.Equal(t, "CGST (9%)", doc.Totals[1].Label)
	assert.Equal(t, "40.50", doc.Totals[1].Amount.StringFixed(2))
	assert.Equal(t, "SGST (9%)", doc.Totals[2].Label)
	assert.Equal(t, "40.50", doc.Totals[2].Amount.StringFixed(2))
	assert.True(t, doc.Totals[3].Emphasis)
	assert.Equal(t, "531.00", doc.GrandTotal().StringFixed(2))
	assert.Equal(t, "INV-a7b8c9", doc.Meta.Fields[0].Value)
	assert.Equal(t, []string{"This is a computer generated invoice.", "For any queries, please contact: +91 9790569529", "Email: info@netlonservices.com"}, doc.Footer)
}

func TestRenderDefaultsMissingFields(t *testing.T) {
	cfg := config.DefaultDocumentConfig()
	q := domain.Quotation{Items: []domain.LineItem{{Description: "x", Qty: 1, Rate: dec("5")}}}

	doc := Render(q, cfg.Company, cfg.Bank, domain.VariantQuotation, OptionsFromConfig(cfg, domain.VariantQuotation, renderDate))

	assert.Equal(t, []Field{
		{Label: "Bill To", Value: "N/A"},
		{Label: "Contact No", Value: "N/A"},
		{Label: "State Name", Value: "Tamil Nadu"},
	}, doc.Customer.Fields)
	assert.Equal(t, "02/05/2026", doc.Meta.Fields[1].Value, "estimate date falls back to the render date")
	assert.Equal(t, "Bank Name", doc.Bank.Fields[5].Label)
	assert.Equal(t, "HDFC BANK", doc.Bank.Fields[5].Value)
}

func TestRenderIsPure(t *testing.T) {
	cfg := config.DefaultDocumentConfig()
	q := sampleQuotation()
	opts := OptionsFromConfig(cfg, domain.VariantInvoice, renderDate)

	a := Render(q, cfg.Company, cfg.Bank, domain.VariantInvoice, opts)
	b := Render(q, cfg.Company, cfg.Bank, domain.VariantInvoice, opts)

	assert.Equal(t, a, b)
	assert.Equal(t, "1", q.Items[0].Amount.String(), "input must not be mutated")
}

func TestInvoiceNumber(t *testing.T) {
	assert.Equal(t, "N/A", InvoiceNumber(""))
	assert.Equal(t, "INV-000042", InvoiceNumber("42"))
	assert.Equal(t, "INV-345678", InvoiceNumber("12345678"))
}

func TestFilename(t *testing.T) {
	cases := []struct {
		name    string
		variant domain.Variant
		ref     string
		format  Format
		want    string
	}{
		{"estimate no", domain.VariantQuotation, "EST-042", FormatHTML, "Quotation_EST-042.html"},
		{"invoice pdf", domain.VariantInvoice, "EST-042", FormatPDF, "Invoice_EST-042.pdf"},
		{"path separators", domain.VariantQuotation, "2026/04\\7", FormatXLSX, "Quotation_2026-04-7.xlsx"},
		{"empty", domain.VariantQuotation, "", FormatHTML, "Quotation_draft.html"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Document{Variant: tc.variant, Reference: tc.ref}
			assert.Equal(t, tc.want, Filename(doc, tc.format))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPrintAndDownloadAreIdentical(t *testing.T) {
	svc := newTestService(t)
	q := sampleQuotation()

	printed, err := svc.Artifact(t.Context(), q, nil, domain.VariantQuotation, FormatHTML, PurposePrint)
	require.NoError(t, err)
	downloaded, err := svc.Artifact(t.Context(), q, nil, domain.VariantQuotation, FormatHTML, PurposeDownload)
	require.NoError(t, err)

	assert.Equal(t, printed.Body, downloaded.Body)
	assert.Equal(t, "Quotation_EST-042.html", downloaded.Filename)
	assert.Equal(t, "text/html; charset=utf-8", downloaded.ContentType)
}

func TestHTMLContainsDocumentSections(t *testing.T) {
	svc := newTestService(t)

	art, err := svc.Artifact(t.Context(), sampleQuotation(), nil, domain.VariantInvoice, FormatHTML, PurposeDownload)
	require.NoError(t, err)
	html := string(art.Body)

	for _, want := range []string{
		"TAX INVOICE",
		"SRI RAJA MOSQUITO NETLON SERVICES",
		"Raja Textiles",
		"Mosquito Net 4x6",
		"₹450.00",
		"₹40.50",
		"₹531.00",
		"GRAND TOTAL:",
		"Bank Details",
		"window.print()",
	} {
		assert.Contains(t, html, want)
	}
}

func TestHTMLEscapesCustomerInput(t *testing.T) {
	svc := newTestService(t)
	q := sampleQuotation()
	q.CustomerInfo.BillTo = `<script>alert("x")</script>`

	art, err := svc.Artifact(t.Context(), q, nil, domain.VariantQuotation, FormatHTML, PurposeDownload)
	require.NoError(t, err)

	assert.NotContains(t, string(art.Body), `<script>alert("x")</script>`)
	assert.Contains(t, string(art.Body), "&lt;script&gt;")
}

func TestCompanyOverride(t *testing.T) {
	svc := newTestService(t)
	company := svc.Company()
	company.Name = "Remote Co"

	doc := svc.Document(sampleQuotation(), &company, domain.VariantQuotation)

	assert.Equal(t, "Remote Co", doc.Company.Name)
}

func TestPDFArtifact(t *testing.T) {
	svc := newTestService(t)

	art, err := svc.Artifact(t.Context(), sampleQuotation(), nil, domain.VariantInvoice, FormatPDF, PurposeDownload)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF")))
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.Equal(t, "Invoice_EST-042.pdf", art.Filename)
}

func TestXLSXArtifact(t *testing.T) {
	svc := newTestService(t)

	art, err := svc.Artifact(t.Context(), sampleQuotation(), nil, domain.VariantInvoice, FormatXLSX, PurposeDownload)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(art.Body))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	var grand string
	var sawItem bool
	for _, row := range rows {
		for i, v := range row {
			if v == "GRAND TOTAL" && i+1 < len(row) {
				grand = row[i+1]
			}
			if v == "Mosquito Net 4x6" {
				sawItem = true
			}
		}
	}
	assert.True(t, sawItem)
	assert.Equal(t, "531", strings.TrimSpace(grand))
}
