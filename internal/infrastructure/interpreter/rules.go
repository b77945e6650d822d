package interpreter

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoicer/backend/internal/domain/invoice"
)

var (
	billingIntent = regexp.MustCompile(`(?i)\b(invoice|bill|charge)\b`)

	// "Invoice Acme Corp for 50 hours of Web Development Service"
	customerThenItems = regexp.MustCompile(`\b(?:[Ii]nvoice|[Bb]ill|[Cc]harge)\s+(?:to\s+)?((?:[A-Z][\w&.'-]*\s+)+?)for\s+(.+)$`)
	// "Create an invoice for 3 Logo Design for customer XYZ Enterprises"
	itemsOnly     = regexp.MustCompile(`(?i)\bfor\s+(.+)$`)
	customerLabel = regexp.MustCompile(`(?i)\b(?:for|to)\s+customer\s+(.+?)(?:[,.;:]|\s+(?:due|dated|in)\b|$)`)
	// "Invoice 2x Logo Design and Hosting Fee"
	leadingItems = regexp.MustCompile(`(?i)\b(?:invoice|bill|charge)\s+(.+)$`)

	trailingClause = regexp.MustCompile(`(?i)[,.;]?\s*\b(?:due|dated|payable|in\s+(?:usd|eur|gbp|dollars?|euros?|pounds?))\b.*$`)
	itemSeparator  = regexp.MustCompile(`(?i)\s*(?:,|\band\b|\bplus\b|&)\s*`)
	quantityPrefix = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)(?:\s*[x×]\s+|\s+(?:(?:hours?|hrs?|units?|days?|pcs|pieces?|months?)\s+(?:of\s+)?|of\s+)?)(.+)$`)

	dueOnDate   = regexp.MustCompile(`(?i)\bdue\s+(?:on\s+|by\s+)?(\d{4}-\d{2}-\d{2})\b`)
	dueInDays   = regexp.MustCompile(`(?i)\bdue\s+in\s+(\d+)\s+days?\b`)
	datedOn     = regexp.MustCompile(`(?i)\b(?:dated|issued)\s+(?:on\s+)?(\d{4}-\d{2}-\d{2})\b`)
	currencyRef = regexp.MustCompile(`(?i)\bin\s+(usd|eur|gbp|dollars?|euros?|pounds?)\b|([$€£])`)
)

// RulesInterpreter is an offline pattern-based interpreter. It understands the
// common "invoice <customer> for <qty> <item>" phrasing and declines anything
// without billing intent.
type RulesInterpreter struct{}

// NewRulesInterpreter creates the pattern-based interpreter
func NewRulesInterpreter() *RulesInterpreter { return &RulesInterpreter{} }

// Name implements Interpreter
func (*RulesInterpreter) Name() string { return "rules" }

// Interpret implements Interpreter
func (*RulesInterpreter) Interpret(_ context.Context, req Request) (*invoice.Draft, error) {
	msg := strings.TrimSpace(req.Message)
	if !billingIntent.MatchString(msg) {
		return &invoice.Draft{IsInvoiceRequest: false, Reason: "no billing intent found", Items: []invoice.CandidateItem{}}, nil
	}

	d := &invoice.Draft{IsInvoiceRequest: true}
	body := msg

	if m := customerLabel.FindStringSubmatch(msg); m != nil {
		d.CustomerRef = strings.TrimSpace(m[1])
		body = strings.Replace(body, m[0], " ", 1)
	}

	var itemText string
	if m := customerThenItems.FindStringSubmatch(body); m != nil && d.CustomerRef == "" {
		d.CustomerRef = strings.TrimSpace(m[1])
		itemText = m[2]
	} else if m := itemsOnly.FindStringSubmatch(body); m != nil {
		itemText = m[1]
	} else if m := leadingItems.FindStringSubmatch(body); m != nil {
		itemText = m[1]
	}
	d.Items = parseItems(itemText)
	d.CustomerRef = knownCustomer(d.CustomerRef, msg, req.CustomerNames)

	if m := datedOn.FindStringSubmatch(msg); m != nil {
		d.InvoiceDate = m[1]
	}
	if m := dueOnDate.FindStringSubmatch(msg); m != nil {
		d.DueDate = m[1]
	} else if m := dueInDays.FindStringSubmatch(msg); m != nil {
		days, _ := strconv.Atoi(m[1])
		base := req.Today
		if d.InvoiceDate != "" {
			if t, err := time.Parse(invoice.DateLayout, d.InvoiceDate); err == nil {
				base = t
			}
		}
		d.DueDate = base.AddDate(0, 0, days).Format(invoice.DateLayout)
	}
	if m := currencyRef.FindStringSubmatch(msg); m != nil {
		d.Currency = m[1] + m[2]
	}
	return d, nil
}

func parseItems(text string) []invoice.CandidateItem {
	text = trailingClause.ReplaceAllString(strings.TrimSpace(text), "")
	text = strings.TrimRight(text, " .!")
	items := []invoice.CandidateItem{}
	if text == "" {
		return items
	}
	for _, part := range itemSeparator.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item := invoice.CandidateItem{RawName: part}
		if m := quantityPrefix.FindStringSubmatch(part); m != nil {
			if q, err := decimal.NewFromString(m[1]); err == nil {
				item.Quantity = &q
				item.RawName = strings.TrimSpace(m[2])
			}
		}
		items = append(items, item)
	}
	return items
}

// knownCustomer maps ref onto a known customer name when ref is a word-prefix
// of exactly one of them. With no ref, a known name quoted in msg is used.
func knownCustomer(ref, msg string, names []string) string {
	if ref == "" {
		lower := strings.ToLower(msg)
		for _, n := range names {
			if n != "" && strings.Contains(lower, strings.ToLower(n)) {
				return n
			}
		}
		return ""
	}
	match := ""
	for _, n := range names {
		if strings.EqualFold(n, ref) {
			return n
		}
		if len(n) > len(ref) && strings.EqualFold(n[:len(ref)], ref) && n[len(ref)] == ' ' {
			if match != "" {
				return ref
			}
			match = n
		}
	}
	if match != "" {
		return match
	}
	return ref
}

var _ Interpreter = (*RulesInterpreter)(nil)
