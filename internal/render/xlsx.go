package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Document"

// XLSXRenderer writes the document as a single-sheet workbook. Money cells are
// numeric with a currency number format so the sheet stays summable.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

func (r *XLSXRenderer) Format() Format { return FormatXLSX }

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Render(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, err
	}

	w, err := newSheetWriter(f, doc.Currency, len(doc.Table.Columns))
	if err != nil {
		return nil, err
	}

	w.title(doc.Company.Name, w.styles.title)
	for _, line := range []string{doc.Company.Description, doc.Company.Phone, doc.Company.Address} {
		if line != "" {
			w.title(line, w.styles.plain)
		}
	}
	if doc.Company.GSTIN != "" {
		w.title("GST IN: "+doc.Company.GSTIN, w.styles.plain)
	}
	w.next()
	w.title(doc.Title, w.styles.title)
	w.next()

	w.block(doc.Customer)
	w.block(doc.Meta)

	for i, c := range doc.Table.Columns {
		w.set(i+1, c.Title(doc.Currency), w.styles.header)
	}
	w.next()
	for _, row := range doc.Table.Rows {
		for i, cell := range row {
			if cell.Money {
				w.set(i+1, cell.Amount.InexactFloat64(), w.styles.money)
				continue
			}
			w.set(i+1, cell.Text, w.styles.plain)
		}
		w.next()
	}
	w.next()

	last := len(doc.Table.Columns)
	for _, line := range doc.Totals {
		labelStyle, moneyStyle := w.styles.bold, w.styles.money
		if line.Emphasis {
			moneyStyle = w.styles.moneyBold
		}
		w.set(last-1, line.Label, labelStyle)
		w.set(last, line.Amount.InexactFloat64(), moneyStyle)
		w.next()
	}
	w.next()

	w.block(doc.Bank)
	for _, line := range doc.Footer {
		w.title(line, w.styles.plain)
	}

	if w.err != nil {
		return nil, w.err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title, header, plain, bold, money, moneyBold int
}

// sheetWriter appends rows top to bottom and keeps the first error.
type sheetWriter struct {
	f      *excelize.File
	row    int
	width  int
	styles sheetStyles
	err    error
}

func newSheetWriter(f *excelize.File, currency string, width int) (*sheetWriter, error) {
	moneyFmt := fmt.Sprintf(`"%s"#,##0.00`, strings.ReplaceAll(currency, `"`, ""))
	w := &sheetWriter{f: f, row: 1, width: max(width, 2)}

	var err error
	newStyle := func(s *excelize.Style) int {
		if err != nil {
			return 0
		}
		var id int
		id, err = f.NewStyle(s)
		return id
	}
	w.styles = sheetStyles{
		title:     newStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: &excelize.Alignment{Horizontal: "center"}}),
		header:    newStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"ECF0F1"}}}),
		plain:     newStyle(&excelize.Style{}),
		bold:      newStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}),
		money:     newStyle(&excelize.Style{CustomNumFmt: &moneyFmt}),
		moneyBold: newStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFmt}),
	}
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheet, "A", "A", 8); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheet, "B", "B", 40); err != nil {
		return nil, err
	}
	return w, f.SetColWidth(xlsxSheet, "C", "E", 16)
}

func (w *sheetWriter) set(col int, value any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(xlsxSheet, cell, value); err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(xlsxSheet, cell, cell, style)
}

// title writes value merged across the table width.
func (w *sheetWriter) title(value string, style int) {
	w.set(1, value, style)
	if w.err == nil {
		first, _ := excelize.CoordinatesToCellName(1, w.row)
		last, _ := excelize.CoordinatesToCellName(w.width, w.row)
		w.err = w.f.MergeCell(xlsxSheet, first, last)
	}
	w.next()
}

func (w *sheetWriter) block(b Block) {
	w.set(1, b.Title, w.styles.bold)
	w.next()
	for _, field := range b.Fields {
		w.set(1, field.Label, w.styles.plain)
		w.set(2, field.Value, w.styles.plain)
		w.next()
	}
	w.next()
}

func (w *sheetWriter) next() { w.row++ }
