package render

import (
	"bytes"
	"html/template"
)

const documentHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Variant.Title}} {{.Reference}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 20px;
      font-family: Arial, Helvetica, sans-serif;
      color: #2c3e50;
      background: #ffffff;
    }
    .document {
      max-width: 800px;
      margin: 0 auto;
      border: 2px solid #2c3e50;
      padding: 20px;
    }
    .company-header {
      text-align: center;
      border-bottom: 2px solid #2c3e50;
      padding-bottom: 12px;
      margin-bottom: 12px;
    }
    .company-header h2 { margin: 0 0 6px; font-size: 22px; }
    .company-header p { margin: 2px 0; font-size: 13px; }
    .title {
      text-align: center;
      font-size: 20px;
      font-weight: 700;
      letter-spacing: 1px;
      margin: 12px 0;
    }
    .details-grid {
      display: flex;
      gap: 16px;
      margin-bottom: 16px;
    }
    .details-grid > div {
      flex: 1;
      border: 1px solid #bdc3c7;
      padding: 10px;
    }
    .details-grid h4, .bank h4 { margin: 0 0 8px; font-size: 14px; }
    .detail-row { display: flex; font-size: 13px; padding: 2px 0; }
    .detail-label { width: 45%; font-weight: 600; }
    .detail-value { width: 55%; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
    th, td { border: 1px solid #2c3e50; padding: 6px 8px; font-size: 13px; }
    th { background: #ecf0f1; }
    .left { text-align: left; }
    .center { text-align: center; }
    .right { text-align: right; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; margin-bottom: 16px; }
    .total-row { display: flex; justify-content: space-between; width: 300px; padding: 4px 0; font-size: 14px; }
    .total-row.emphasis { border-top: 2px solid #2c3e50; font-weight: 700; font-size: 16px; }
    .bank { border: 1px solid #bdc3c7; padding: 10px; margin-bottom: 16px; }
    .footer { text-align: center; font-size: 12px; color: #7f8c8d; }
    .footer p { margin: 2px 0; }
    @media print {
      body { padding: 0; }
      .document { border: none; }
      @page { size: A4 portrait; margin: 0.5cm; }
    }
  </style>
</head>
<body>
  <div class="document">
    <div class="company-header">
      <h2>{{.Company.Name}}</h2>
      {{if .Company.Description}}<p>{{.Company.Description}}</p>{{end}}
      {{if .Company.Phone}}<p><strong>{{.Company.Phone}}</strong></p>{{end}}
      {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
      {{if .Company.GSTIN}}<p><strong>GST IN:</strong> {{.Company.GSTIN}}</p>{{end}}
    </div>

    <div class="title">{{.Title}}</div>

    <div class="details-grid">
      {{template "block" .Customer}}
      {{template "block" .Meta}}
    </div>

    <table>
      <thead>
        <tr>
          {{range .Table.Columns}}<th class="{{alignClass .Align}}">{{.Title $.Currency}}</th>{{end}}
        </tr>
      </thead>
      <tbody>
        {{range .Table.Rows}}
        <tr>
          {{range $i, $cell := .}}<td class="{{cellAlign $.Table.Columns $i}}">{{$cell.Format $.Currency}}</td>{{end}}
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      {{range .Totals}}
      <div class="total-row{{if .Emphasis}} emphasis{{end}}">
        <span>{{.Label}}:</span>
        <span>{{money .Amount $.Currency}}</span>
      </div>
      {{end}}
    </div>

    <div class="bank">
      {{template "block" .Bank}}
    </div>

    <div class="footer">
      {{range .Footer}}<p>{{.}}</p>{{end}}
    </div>
  </div>
  <script>
    if (location.hash === '#print' || location.pathname.slice(-6) === '/print') {
      window.addEventListener('load', function () { window.print(); });
    }
  </script>
</body>
</html>
{{define "block"}}<div>
        <h4>{{.Title}}</h4>
        {{range .Fields}}
        <div class="detail-row">
          <div class="detail-label">{{.Label}}:</div>
          <div class="detail-value">{{.Value}}</div>
        </div>
        {{end}}
      </div>{{end}}`

// HTMLRenderer serves both the print surface and the .html download.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"money":      FormatMoney,
		"alignClass": alignClass,
		"cellAlign": func(cols []Column, i int) string {
			if i < 0 || i >= len(cols) {
				return alignClass(AlignLeft)
			}
			return alignClass(cols[i].Align)
		},
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("document").Funcs(funcs).Parse(documentHTMLTemplate)),
	}
}

func (r *HTMLRenderer) Format() Format { return FormatHTML }

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func alignClass(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}
