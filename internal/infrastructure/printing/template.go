package printing

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

const invoiceStyles = `
body { font-family: "Helvetica Neue", Arial, sans-serif; color: #222; font-size: 13px; }
.invoice-container { max-width: 800px; margin: 0 auto; }
.invoice-header { display: flex; justify-content: space-between; border-bottom: 2px solid #333; padding-bottom: 12px; }
.invoice-title { margin: 0; font-size: 22px; }
.invoice-id { font-weight: bold; }
.section-title { margin-top: 20px; font-size: 14px; text-transform: uppercase; color: #555; }
table { width: 100%; border-collapse: collapse; }
.invoice-items th, .invoice-items td { border-bottom: 1px solid #ddd; padding: 6px; text-align: left; }
.invoice-items td.num, .invoice-items th.num { text-align: right; }
.invoice-total { width: 40%; margin-left: auto; margin-top: 12px; }
.invoice-total td { padding: 4px 6px; text-align: right; }
.total-row td { font-weight: bold; border-top: 2px solid #333; }
.placeholder { color: #b00; font-style: italic; }
.payment-terms, .invoice-notes { margin-top: 18px; }
`

const invoiceTemplate = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>Invoice {{.InvoiceNumber}}</title>
<style>{{styles}}</style></head>
<body><div class="invoice-container">
<div class="invoice-header">
  <div><h1 class="invoice-title">{{.BusinessName}}</h1><p>{{.BusinessAddress}}</p><p class="contact-info">{{.BusinessContact}}</p></div>
  <div><h2>INVOICE</h2><p class="invoice-id">#{{.InvoiceNumber}}</p><p>Date: {{.InvoiceDate}}</p><p>Due: {{.DueDate}}</p></div>
</div>
<h3 class="section-title">Bill To:</h3>
<p><strong>{{.CustomerName}}</strong></p><p>{{.CustomerAddress}}</p><p>{{.CustomerContact}}</p>
<h3 class="section-title">Items</h3>
<table class="invoice-items">
<thead><tr><th>Item Name</th><th class="num">Quantity</th><th class="num">Unit Price</th><th class="num">Tax Rate</th><th class="num">Total</th></tr></thead>
<tbody>
{{- range .Items}}
<tr><td>{{.ItemName}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{rate .TaxRate}}</td><td class="num">{{money .TotalPrice}}</td></tr>
{{- end}}
</tbody></table>
<table class="invoice-total">
<tr><td>Subtotal:</td><td>{{money .Subtotal}}</td></tr>
<tr><td>Tax:</td><td>{{money .Tax}}</td></tr>
<tr class="total-row"><td>Total:</td><td>{{money .TotalDue}}</td></tr>
</table>
<div class="payment-terms"><strong>Payment Terms:</strong> {{.PaymentTerms}}</div>
{{- if .Notes}}
<div class="invoice-notes">{{.Notes}}</div>
{{- end}}
</div></body></html>
`

const rejectionTemplate = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>Invoice request rejected</title></head>
<body><p>{{.Output}}</p></body></html>
`

var rejectionTmpl = template.Must(template.New("rejection").Parse(rejectionTemplate))

// RenderInvoiceHTML renders the printable invoice page. Placeholder amounts
// are shown as PLACEHOLDER and highlighted.
func RenderInvoiceHTML(doc *invoice.Document) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice document is nil", nil)
	}
	currency := doc.Currency
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"styles": func() template.CSS { return template.CSS(invoiceStyles) },
		"money":  func(a valueobject.Amount) template.HTML { return highlight(a, a.Format(currency)) },
		"rate":   func(a valueobject.Amount) template.HTML { return highlight(a, formatRate(a)) },
	}).Parse(invoiceTemplate)
	if err != nil {
		return "", fmt.Errorf("parse invoice template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render invoice template: %w", err)
	}
	return buf.String(), nil
}

// RenderRejectionHTML renders the single-message page for a rejected request
func RenderRejectionHTML(r *invoice.Rejection) (string, error) {
	var buf bytes.Buffer
	if err := rejectionTmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render rejection template: %w", err)
	}
	return buf.String(), nil
}

func highlight(a valueobject.Amount, text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	if a.IsPlaceholder() {
		return template.HTML(`<span class="placeholder">` + escaped + `</span>`)
	}
	return template.HTML(escaped)
}

// formatRate renders a tax rate in percent, e.g. "10%"
func formatRate(a valueobject.Amount) string {
	d, ok := a.Decimal()
	if !ok {
		return valueobject.Placeholder
	}
	return percent(d)
}

func percent(d decimal.Decimal) string {
	return d.String() + "%"
}
