package printing

import (
	"bytes"
	"context"
	"html/template"

	billingapp "github.com/invoicely/backend/internal/application/billing"
)

// invoiceTemplate is the built-in invoice layout: letterhead with optional
// logo, bill-to block, line item table and a totals column with conditional
// tax/discount rows.
const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #1a1a1a; margin: 0; }
  .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .logo { max-height: 64px; max-width: 180px; }
  .business { text-align: right; }
  .business .name { font-size: 14px; font-weight: bold; }
  .muted { color: #666; }
  h1 { font-size: 24px; letter-spacing: 2px; margin: 0 0 4px 0; }
  .meta { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .bill-to .label { font-size: 9px; text-transform: uppercase; color: #888; margin-bottom: 4px; }
  .dates { text-align: right; }
  .status { display: inline-block; padding: 2px 8px; border: 1px solid #ccc; border-radius: 3px;
            text-transform: uppercase; font-size: 9px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  th { font-size: 9px; text-transform: uppercase; color: #888; text-align: left;
       border-bottom: 1px solid #ddd; padding: 6px 4px; }
  th.num, td.num { text-align: right; }
  td { padding: 6px 4px; border-bottom: 1px solid #f0f0f0; }
  .totals { width: 240px; margin-left: auto; }
  .totals td { border: none; padding: 3px 4px; }
  .totals .grand td { border-top: 1px solid #1a1a1a; font-weight: bold; font-size: 13px; }
  .footer { margin-top: 32px; }
  .footer .label { font-size: 9px; text-transform: uppercase; color: #888; margin-bottom: 2px; }
  .footer .block { margin-bottom: 12px; white-space: pre-wrap; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h1>INVOICE</h1>
      <div class="muted">{{.InvoiceNumber}}</div>
      <div style="margin-top:6px"><span class="status">{{.Status}}</span></div>
    </div>
    <div class="business">
      {{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt=""><br>{{end}}
      {{if .BusinessName}}<div class="name">{{.BusinessName}}</div>{{end}}
      {{if .BusinessAddress}}<div class="muted">{{.BusinessAddress}}</div>{{end}}
      {{if .BusinessPhone}}<div class="muted">{{.BusinessPhone}}</div>{{end}}
      {{if .BusinessTaxID}}<div class="muted">Tax ID: {{.BusinessTaxID}}</div>{{end}}
    </div>
  </div>

  <div class="meta">
    <div class="bill-to">
      <div class="label">Bill To</div>
      {{if .ClientName}}<div><strong>{{.ClientName}}</strong></div>{{end}}
      {{if .ClientCompany}}<div>{{.ClientCompany}}</div>{{end}}
      {{if .ClientEmail}}<div class="muted">{{.ClientEmail}}</div>{{end}}
      {{if .ClientPhone}}<div class="muted">{{.ClientPhone}}</div>{{end}}
      {{if .ClientAddress}}<div class="muted">{{.ClientAddress}}</div>{{end}}
    </div>
    <div class="dates">
      <div><span class="muted">Issue Date:</span> {{.IssueDate}}</div>
      <div><span class="muted">Due Date:</span> {{.DueDate}}</div>
      {{if .PaidDate}}<div><span class="muted">Paid Date:</span> {{.PaidDate}}</div>{{end}}
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th>Description</th>
        <th class="num">Qty</th>
        <th class="num">Rate</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{.Rate}}</td>
        <td class="num">{{.Amount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
    {{if .TaxLabel}}<tr><td>{{.TaxLabel}}</td><td class="num">{{.TaxAmount}}</td></tr>{{end}}
    {{if .DiscountLabel}}<tr><td>{{.DiscountLabel}}</td><td class="num">{{.DiscountAmount}}</td></tr>{{end}}
    <tr class="grand"><td>Total</td><td class="num">{{.Total}}</td></tr>
  </table>

  <div class="footer">
    {{if .Notes}}<div class="label">Notes</div><div class="block">{{.Notes}}</div>{{end}}
    {{if .Terms}}<div class="label">Terms</div><div class="block">{{.Terms}}</div>{{end}}
  </div>
</body>
</html>`

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// InvoiceRenderer turns an assembled invoice document into PDF bytes by
// expanding the built-in HTML template and handing it to a PDFRenderer.
type InvoiceRenderer struct {
	pdf PDFRenderer
}

// NewInvoiceRenderer creates a new InvoiceRenderer
func NewInvoiceRenderer(pdf PDFRenderer) *InvoiceRenderer {
	return &InvoiceRenderer{pdf: pdf}
}

// Ensure InvoiceRenderer implements the application-layer renderer port
var _ billingapp.DocumentRenderer = (*InvoiceRenderer)(nil)

// RenderInvoice renders the document as an A4 portrait PDF
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, doc *billingapp.InvoiceDocument) ([]byte, error) {
	html, err := RenderInvoiceHTML(doc)
	if err != nil {
		return nil, err
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     Margins{Top: 15, Right: 15, Bottom: 15, Left: 15},
		Title:       "Invoice " + doc.InvoiceNumber,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// RenderInvoiceHTML expands the invoice template for a document
func RenderInvoiceHTML(doc *billingapp.InvoiceDocument) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to render invoice template", err)
	}
	return buf.String(), nil
}
