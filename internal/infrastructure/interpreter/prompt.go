package interpreter

import (
	"fmt"
	"strings"

	"github.com/invoicer/backend/internal/domain/invoice"
)

const systemPrompt = `You extract billing requests for an invoicing system.
Today is %s.

Reply with a single JSON object and nothing else:
{
  "is_invoice_request": boolean,
  "reason": string,
  "items": [{"name": string, "quantity": number | null}],
  "customer": string | null,
  "invoice_date": "YYYY-MM-DD" | null,
  "due_date": "YYYY-MM-DD" | null,
  "currency": string | null,
  "notes": string | null
}

Rules:
- is_invoice_request is false for anything that is not a request to bill someone; items is then [].
- When an item clearly refers to a catalog item below, use the catalog name. Otherwise copy the name as written by the user. Never invent prices, tax rates or totals.
- quantity is null when the user does not state one.
- customer is the billed party. Use the known customer name it refers to, the name as written when it matches none, or null when not mentioned.
- Resolve relative dates such as "tomorrow" or "in 30 days" against today. Leave dates null when not mentioned.
- currency is the symbol or ISO code the user asked for, or null.`

func buildSystemPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, systemPrompt, req.Today.Format(invoice.DateLayout))
	b.WriteString("\n\nCompany info:\n")
	writeNameList(&b, "Catalog items", req.ItemNames)
	writeNameList(&b, "Known customers", req.CustomerNames)
	return b.String()
}

func writeNameList(b *strings.Builder, title string, names []string) {
	fmt.Fprintf(b, "%s:", title)
	if len(names) == 0 {
		b.WriteString(" (none)\n")
		return
	}
	b.WriteString("\n")
	for _, n := range names {
		fmt.Fprintf(b, "- %s\n", n)
	}
}
