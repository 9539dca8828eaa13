package render

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFRenderer lays the document out with maroto. The built-in PDF fonts have
// no rupee glyph, so money is printed with the renderer's currency when set.
type PDFRenderer struct {
	currency func() string
}

func NewPDFRenderer(currency string) *PDFRenderer {
	return &PDFRenderer{currency: func() string { return currency }}
}

func (r *PDFRenderer) Format() Format { return FormatPDF }

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	currency := doc.Currency
	if r.currency != nil {
		if c := r.currency(); c != "" {
			currency = c
		}
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(9, text.NewCol(12, doc.Company.Name, props.Text{Size: 15, Style: fontstyle.Bold, Align: align.Center}))
	for _, line := range []string{doc.Company.Description, doc.Company.Phone, doc.Company.Address} {
		if line != "" {
			m.AddRow(5, text.NewCol(12, line, props.Text{Size: 9, Align: align.Center}))
		}
	}
	if doc.Company.GSTIN != "" {
		m.AddRow(5, text.NewCol(12, "GST IN: "+doc.Company.GSTIN, props.Text{Size: 9, Align: align.Center}))
	}

	m.AddRow(12, text.NewCol(12, doc.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center, Top: 3}))

	m.AddRow(blockHeight(doc.Customer, doc.Meta),
		blockCol(doc.Customer),
		blockCol(doc.Meta),
	)

	header := make([]core.Col, 0, len(doc.Table.Columns))
	for _, c := range doc.Table.Columns {
		header = append(header, text.NewCol(c.Span, c.Title(currency), props.Text{
			Size: 9, Style: fontstyle.Bold, Align: pdfAlign(c.Align),
		}))
	}
	m.AddRow(8, header...)

	for _, row := range doc.Table.Rows {
		cols := make([]core.Col, 0, len(row))
		for i, cell := range row {
			c := doc.Table.Columns[i]
			cols = append(cols, text.NewCol(c.Span, cell.Format(currency), props.Text{Size: 9, Align: pdfAlign(c.Align)}))
		}
		m.AddRow(7, cols...)
	}

	for _, line := range doc.Totals {
		style := props.Text{Size: 9, Align: align.Right}
		if line.Emphasis {
			style.Style = fontstyle.Bold
			style.Size = 11
		}
		m.AddRow(7,
			col.New(6),
			text.NewCol(3, line.Label+":", style),
			text.NewCol(3, FormatMoney(line.Amount, currency), style),
		)
	}

	m.AddRow(float64(6+5*len(doc.Bank.Fields)), blockCol(doc.Bank), col.New(6))

	for _, line := range doc.Footer {
		m.AddRow(5, text.NewCol(12, line, props.Text{Size: 8, Align: align.Center}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

func blockCol(b Block) core.Col {
	c := col.New(6)
	c.Add(text.New(b.Title, props.Text{Size: 10, Style: fontstyle.Bold}))
	for i, f := range b.Fields {
		c.Add(text.New(f.Label+": "+f.Value, props.Text{Size: 9, Top: float64(6 + 5*i)}))
	}
	return c
}

func blockHeight(blocks ...Block) float64 {
	n := 0
	for _, b := range blocks {
		n = max(n, len(b.Fields))
	}
	return float64(8 + 5*n)
}

func pdfAlign(a Align) align.Type {
	switch a {
	case AlignCenter:
		return align.Center
	case AlignRight:
		return align.Right
	default:
		return align.Left
	}
}
