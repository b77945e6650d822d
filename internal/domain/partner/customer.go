package partner

import "strings"

// Customer is a billed party as stored in the company's customer list
type Customer struct {
	Name    string
	Address string
	Contact string
}

// IsZero reports whether no customer data is present
func (c Customer) IsZero() bool {
	return c.Name == "" && c.Address == "" && c.Contact == ""
}

// FindCustomer returns the customer whose name matches ref exactly,
// ignoring case and surrounding whitespace.
func FindCustomer(customers []Customer, ref string) (Customer, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Customer{}, false
	}
	for _, c := range customers {
		if strings.EqualFold(strings.TrimSpace(c.Name), ref) {
			return c, true
		}
	}
	return Customer{}, false
}

// DefaultCustomer is the first customer of the list
func DefaultCustomer(customers []Customer) (Customer, bool) {
	if len(customers) == 0 {
		return Customer{}, false
	}
	return customers[0], true
}
