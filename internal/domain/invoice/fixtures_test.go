package invoice

import (
	"context"
	"sync"
	"time"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func qty(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func mustItem(name, price, rate string) catalog.Item {
	it, err := catalog.NewItem(name, dec(price), dec(rate))
	if err != nil {
		panic(err)
	}
	return it
}

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(
		catalog.BusinessProfile{
			CompanyID:      "1",
			Name:           "ABC Solutions",
			Address:        "123 Business Street, Cityville",
			Contact:        "Phone: +1-234-567-890 | Email: contact@abcsolutions.com",
			PaymentTerms:   "Net 14 days",
			PaymentMethods: []string{"Bank Transfer", "PayPal"},
		},
		[]catalog.Item{
			mustItem("Web Development Service", "50", "10"),
			mustItem("Logo Design", "300", "21"),
			mustItem("Hosting Fee", "19.99", "0"),
		},
		[]partner.Customer{
			{Name: "XYZ Enterprises", Address: "456 Client Avenue, Townsville", Contact: "Email: billing@xyzenterprises.com"},
			{Name: "Acme Corp", Address: "1 Road Runner Way", Contact: "ap@acme.example"},
		},
	)
}

var testToday = time.Date(2025, 2, 14, 15, 30, 0, 0, time.UTC)

type counterNumberer struct {
	mu  sync.Mutex
	seq map[string]int64
}

func newCounterNumberer() *counterNumberer {
	return &counterNumberer{seq: make(map[string]int64)}
}

func (n *counterNumberer) Next(_ context.Context, companyID string, year int) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := companyID + ":" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
	n.seq[key]++
	return n.seq[key], nil
}
