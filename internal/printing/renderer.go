package printing

import (
	"bytes"
	"html/template"
	"time"
)

// InvoiceRow is one printed transaction line.
type InvoiceRow struct {
	SKU          string
	Name         string
	QtyPrimary   string
	QtySecondary string
}

// InvoiceView feeds the invoice template for any of the four transaction
// kinds; Title distinguishes them ("Purchase Invoice", "Sale Invoice", ...).
type InvoiceView struct {
	Company    string
	Title      string
	Number     string
	Date       time.Time
	PartyLabel string // "Vendor" or "Customer"
	PartyName  string
	Location   string
	Rows       []InvoiceRow
	Total      string // summed quantities, e.g. "140.000 sqft / 7 slab"
	Notes      string
	Cancelled  bool
}

// ReportRow is one line of the printed location stock report.
type ReportRow struct {
	SKU          string
	Name         string
	Category     string
	QtyPrimary   string
	QtySecondary string
}

type ReportView struct {
	Company     string
	Title       string
	Location    string
	GeneratedAt time.Time
	Rows        []ReportRow
}

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 18px; margin-bottom: 0; }
.company { font-size: 14px; font-weight: bold; }
.meta { margin: 12px 0; }
.meta td { padding: 2px 16px 2px 0; }
table.lines { width: 100%; border-collapse: collapse; margin-top: 12px; }
table.lines th, table.lines td { border: 1px solid #999; padding: 6px 8px; text-align: left; }
table.lines th { background: #eee; }
.qty { text-align: right; }
.cancelled { color: #b00020; font-size: 16px; font-weight: bold; border: 2px solid #b00020; display: inline-block; padding: 4px 12px; margin-top: 10px; }
.notes { margin-top: 14px; font-style: italic; }
</style>
</head>
<body>
<div class="company">{{.Company}}</div>
<h1>{{.Title}} #{{.Number}}</h1>
{{if .Cancelled}}<div class="cancelled">CANCELLED</div>{{end}}
<table class="meta">
<tr><td>Date</td><td>{{.Date.Format "02 Jan 2006 15:04"}}</td></tr>
{{if .PartyName}}<tr><td>{{.PartyLabel}}</td><td>{{.PartyName}}</td></tr>{{end}}
{{if .Location}}<tr><td>Location</td><td>{{.Location}}</td></tr>{{end}}
</table>
<table class="lines">
<tr><th>SKU</th><th>Item</th><th class="qty">Quantity</th><th class="qty">Count</th></tr>
{{range .Rows}}
<tr><td>{{.SKU}}</td><td>{{.Name}}</td><td class="qty">{{.QtyPrimary}}</td><td class="qty">{{.QtySecondary}}</td></tr>
{{end}}
{{if .Total}}<tr><td colspan="2"><b>Total</b></td><td class="qty" colspan="2"><b>{{.Total}}</b></td></tr>{{end}}
</table>
{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`))

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #222; }
h1 { font-size: 16px; margin-bottom: 2px; }
.company { font-size: 13px; font-weight: bold; }
.sub { color: #555; margin-bottom: 10px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 5px 8px; text-align: left; }
th { background: #eee; }
.qty { text-align: right; }
</style>
</head>
<body>
<div class="company">{{.Company}}</div>
<h1>{{.Title}}</h1>
<div class="sub">{{if .Location}}Location: {{.Location}} &middot; {{end}}Generated {{.GeneratedAt.Format "02 Jan 2006 15:04"}}</div>
<table>
<tr><th>SKU</th><th>Item</th><th>Category</th><th class="qty">Quantity</th><th class="qty">Count</th></tr>
{{range .Rows}}
<tr><td>{{.SKU}}</td><td>{{.Name}}</td><td>{{.Category}}</td><td class="qty">{{.QtyPrimary}}</td><td class="qty">{{.QtySecondary}}</td></tr>
{{end}}
</table>
</body>
</html>`))

func RenderInvoiceHTML(view *InvoiceView) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderReportHTML(view *ReportView) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
