package printing

import (
	"fmt"
	"strings"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

// CompanyNotFoundMarkdown is rendered in place of a missing company
const CompanyNotFoundMarkdown = "### Company does not exist"

// CompanyMarkdown renders the company overview: business details, the item
// table with tax-inclusive prices, and the numbered customer list.
func CompanyMarkdown(c *catalog.Company) string {
	if c == nil {
		return CompanyNotFoundMarkdown
	}
	var b strings.Builder
	b.WriteString("#### Business Details\n")
	fmt.Fprintf(&b, "**Name**: %s\n\n", orNA(c.Profile.Name))
	fmt.Fprintf(&b, "**Address**: %s\n\n", orNA(c.Profile.Address))
	fmt.Fprintf(&b, "**Contact**: %s\n\n", orNA(c.Profile.Contact))

	if len(c.Items) > 0 {
		b.WriteString("#### Available Items\n\n")
		b.WriteString("| Item Name | Unit Price (Tax included)  | Tax Rate |\n")
		b.WriteString("|----------|------------|----------|\n")
		for _, it := range c.Items {
			fmt.Fprintf(&b, "| %s | %s%s | %s |\n", it.Name, valueobject.EUR, it.UnitPrice.StringFixed(2), percent(it.TaxRate))
		}
		b.WriteString("\n")
	}

	if len(c.Customers) > 0 {
		b.WriteString("#### Customers\n\n")
		for i, cust := range c.Customers {
			fmt.Fprintf(&b, "**Customer %d**: %s\n\n", i+1, orNA(cust.Name))
			fmt.Fprintf(&b, "**Address**: %s\n\n", orNA(cust.Address))
			fmt.Fprintf(&b, "**Contact**: %s\n\n", orNA(cust.Contact))
		}
	}
	return b.String()
}

// InvoiceMarkdown renders a document as Markdown
func InvoiceMarkdown(doc *invoice.Document) string {
	currency := doc.Currency
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	var b strings.Builder
	fmt.Fprintf(&b, "### Invoice %s\n\n", doc.InvoiceNumber)
	fmt.Fprintf(&b, "**%s**  \n%s  \n%s\n\n", doc.BusinessName, doc.BusinessAddress, doc.BusinessContact)
	fmt.Fprintf(&b, "**Invoice Date**: %s  \n**Due Date**: %s\n\n", doc.InvoiceDate, doc.DueDate)
	fmt.Fprintf(&b, "**Bill To**: %s  \n%s  \n%s\n\n", doc.CustomerName, doc.CustomerAddress, doc.CustomerContact)

	b.WriteString(ItemsMarkdown(doc.Items, currency))
	b.WriteString("\n")
	fmt.Fprintf(&b, "**Subtotal**: %s  \n", doc.Subtotal.Format(currency))
	fmt.Fprintf(&b, "**Tax**: %s  \n", doc.Tax.Format(currency))
	fmt.Fprintf(&b, "**Total Due**: %s\n\n", doc.TotalDue.Format(currency))
	fmt.Fprintf(&b, "**Payment Terms**: %s\n", doc.PaymentTerms)
	if doc.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", doc.Notes)
	}
	return b.String()
}

// ItemsMarkdown renders line items as a table
func ItemsMarkdown(items []invoice.LineItem, currency valueobject.Currency) string {
	if len(items) == 0 {
		return "No relevant items found.\n"
	}
	var b strings.Builder
	b.WriteString("| Item Name | Quantity | Unit Price | Tax Rate | Total |\n")
	b.WriteString("|----------|----------|------------|----------|-------|\n")
	for _, it := range items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			it.ItemName, it.Quantity, it.UnitPrice.Format(currency), formatRate(it.TaxRate), it.TotalPrice.Format(currency))
	}
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
