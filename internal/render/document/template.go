package document

import (
	"html/template"

	"github.com/google/uuid"
)

var pageTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Receipt</title>
<style>
  @page { size: A4; margin: 18mm; }
  body { font-family: Helvetica, Arial, sans-serif; color: #222; font-size: 13px; }
  header { text-align: center; border-bottom: 2px solid #222; padding-bottom: 12px; margin-bottom: 16px; }
  header h1 { margin: 0; font-size: 24px; letter-spacing: 1px; }
  header .date { color: #666; margin-top: 4px; }
  .details { margin-bottom: 16px; }
  .details div { margin: 2px 0; }
  .details span { display: inline-block; min-width: 90px; color: #666; }
  table { width: 100%; border-collapse: collapse; }
  th, td { padding: 8px 6px; border-bottom: 1px solid #ddd; text-align: left; }
  th.num, td.num { text-align: right; }
  td.empty { text-align: center; color: #888; font-style: italic; }
  .summary { width: 45%; margin: 18px 0 0 auto; }
  .summary td { border: none; padding: 4px 6px; }
  .summary tr.grand td { border-top: 2px solid #222; font-size: 16px; font-weight: bold; padding-top: 8px; }
</style>
</head>
<body>
<header>
  <h1>{{.Business}}</h1>
  <div class="date">{{.GeneratedAt}}</div>
</header>
<section class="details">
{{- range .Details}}
  <div><span>{{.Label}}</span>{{.Value}}</div>
{{- end}}
</section>
<table class="items">
  <thead><tr><th>Item</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr></thead>
  <tbody>
{{- range .Items}}
    <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Amount}}</td></tr>
{{- else}}
    <tr><td class="empty" colspan="4">No items</td></tr>
{{- end}}
  </tbody>
</table>
<table class="summary">
{{- range .Summary}}
  <tr{{if .Grand}} class="grand"{{end}}><td>{{.Label}}</td><td class="num">{{.Value}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

var fallbackTemplate = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Receipt</title></head>
<body>
<h1>{{.Business}}</h1>
<p>{{.GeneratedAt}}</p>
<table><tr><td>No items</td></tr></table>
<table>
{{- range .Summary}}
<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

const minimalPage = `<!DOCTYPE html><html><body><p>No items</p></body></html>`

func shortID() string {
	return uuid.New().String()[:8]
}
