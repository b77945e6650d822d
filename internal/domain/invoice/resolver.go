package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

// DefaultDueDays is the gap between invoice date and due date when none is given
const DefaultDueDays = 14

// Resolution holds the header values decided for one request
type Resolution struct {
	Customer           partner.Customer
	InvoiceDate        time.Time
	DueDate            time.Time
	Currency           valueobject.Currency
	CustomerDefault    bool
	InvoiceDateDefault bool
	DueDateDefault     bool
	CurrencyDefault    bool
	Advisories         []Advisory
}

// ResolveCustomer maps the draft's customer reference onto the customer list.
// Without an exact match the first customer is used and an advisory records it.
func ResolveCustomer(ref string, customers []partner.Customer) (partner.Customer, bool, *Advisory) {
	if c, ok := partner.FindCustomer(customers, ref); ok {
		return c, false, nil
	}
	ref = strings.TrimSpace(ref)
	if first, ok := partner.DefaultCustomer(customers); ok {
		msg := fmt.Sprintf("No customer named in request; defaulted to %q", first.Name)
		if ref != "" {
			msg = fmt.Sprintf("Customer %q not found; defaulted to %q", ref, first.Name)
		}
		return first, true, &Advisory{Code: AdvisoryCustomerDefaulted, Message: msg}
	}
	msg := "No customers on file; customer details left blank"
	if ref != "" {
		msg = fmt.Sprintf("No customers on file; using %q without address or contact", ref)
	}
	return partner.Customer{Name: ref}, true, &Advisory{Code: AdvisoryCustomerUnresolved, Message: msg}
}

// ResolveDates applies the date defaults: a missing invoice date is today, a
// missing due date is the resolved invoice date plus dueDays. The draft must
// have been validated.
func ResolveDates(invoiceDate, dueDate string, today time.Time, dueDays int) (issued, due time.Time, issuedDefaulted, dueDefaulted bool) {
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	issued = dateOnly(today)
	if t, err := parseOptionalDate(invoiceDate); err == nil && t != nil {
		issued = *t
	} else {
		issuedDefaulted = true
	}
	if t, err := parseOptionalDate(dueDate); err == nil && t != nil {
		due = *t
	} else {
		due = issued.AddDate(0, 0, dueDays)
		dueDefaulted = true
	}
	return issued, due, issuedDefaulted, dueDefaulted
}

// Resolve applies customer, date and currency defaults to a validated draft
func Resolve(d Draft, customers []partner.Customer, today time.Time, policy Policy) Resolution {
	var r Resolution
	customer, defaulted, adv := ResolveCustomer(d.CustomerRef, customers)
	r.Customer = customer
	r.CustomerDefault = defaulted
	if adv != nil {
		r.Advisories = append(r.Advisories, *adv)
	}

	r.InvoiceDate, r.DueDate, r.InvoiceDateDefault, r.DueDateDefault = ResolveDates(d.InvoiceDate, d.DueDate, today, policy.DueDays)

	currency, ok := valueobject.ParseCurrency(d.Currency)
	if !ok {
		currency = policy.currency()
	}
	r.Currency = currency
	r.CurrencyDefault = !ok
	return r
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
