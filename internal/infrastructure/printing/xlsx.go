package printing

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

const invoiceSheet = "Invoice"

// RenderInvoiceXLSX writes the document to a single-sheet workbook. Resolved
// amounts are numeric cells; placeholders stay the PLACEHOLDER string.
func RenderInvoiceXLSX(doc *invoice.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: invoiceSheet}
	header := [][2]any{
		{"Business", doc.BusinessName},
		{"Address", doc.BusinessAddress},
		{"Contact", doc.BusinessContact},
		{"Invoice Number", doc.InvoiceNumber},
		{"Invoice Date", doc.InvoiceDate},
		{"Due Date", doc.DueDate},
		{"Customer", doc.CustomerName},
		{"Customer Address", doc.CustomerAddress},
		{"Customer Contact", doc.CustomerContact},
		{"Currency", string(currencyOf(doc))},
	}
	row := 1
	for _, kv := range header {
		w.set("A", row, kv[0])
		w.set("B", row, kv[1])
		row++
	}
	row++

	itemsHeader := row
	for i, h := range []string{"Item Name", "Quantity", "Unit Price", "Tax Rate (%)", "Total"} {
		w.set(string(rune('A'+i)), row, h)
	}
	row++
	firstItem := row
	for _, it := range doc.Items {
		w.set("A", row, it.ItemName)
		w.set("B", row, it.Quantity.Decimal().InexactFloat64())
		w.set("C", row, amountCell(it.UnitPrice))
		w.set("D", row, amountCell(it.TaxRate))
		w.set("E", row, amountCell(it.TotalPrice))
		row++
	}
	lastItem := row - 1
	row++

	totalsStart := row
	for _, kv := range [][2]any{
		{"Subtotal", amountCell(doc.Subtotal)},
		{"Tax", amountCell(doc.Tax)},
		{"Total Due", amountCell(doc.TotalDue)},
	} {
		w.set("D", row, kv[0])
		w.set("E", row, kv[1])
		row++
	}
	row++
	w.set("A", row, "Payment Terms")
	w.set("B", row, doc.PaymentTerms)
	row++
	w.set("A", row, "Notes")
	w.set("B", row, doc.Notes)
	if w.err != nil {
		return nil, w.err
	}

	styles := []styledRange{
		{"A1", fmt.Sprintf("A%d", len(header)), bold},
		{fmt.Sprintf("A%d", itemsHeader), fmt.Sprintf("E%d", itemsHeader), bold},
		{fmt.Sprintf("D%d", totalsStart), fmt.Sprintf("D%d", totalsStart+2), bold},
		{fmt.Sprintf("E%d", totalsStart), fmt.Sprintf("E%d", totalsStart+2), money},
	}
	if lastItem >= firstItem {
		styles = append(styles,
			styledRange{fmt.Sprintf("C%d", firstItem), fmt.Sprintf("C%d", lastItem), money},
			styledRange{fmt.Sprintf("E%d", firstItem), fmt.Sprintf("E%d", lastItem), money},
		)
	}
	for _, s := range styles {
		if err := f.SetCellStyle(invoiceSheet, s.from, s.to, s.style); err != nil {
			return nil, fmt.Errorf("style %s:%s: %w", s.from, s.to, err)
		}
	}
	if err := f.SetColWidth(invoiceSheet, "A", "B", 24); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styledRange struct {
	from, to string
	style    int
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col string, row int, v any) {
	if w.err != nil {
		return
	}
	cell := fmt.Sprintf("%s%d", col, row)
	if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
		w.err = fmt.Errorf("set %s: %w", cell, err)
	}
}

func amountCell(a valueobject.Amount) any {
	d, ok := a.Decimal()
	if !ok {
		return valueobject.Placeholder
	}
	return d.Round(2).InexactFloat64()
}

func currencyOf(doc *invoice.Document) valueobject.Currency {
	if doc.Currency == "" {
		return valueobject.DefaultCurrency
	}
	return doc.Currency
}
