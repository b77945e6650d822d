package printing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

func amount(s string) valueobject.Amount {
	a, err := valueobject.ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func testDocument() *invoice.Document {
	return &invoice.Document{
		BusinessName:    "ABC Solutions",
		BusinessAddress: "1 Main Street",
		BusinessContact: "billing@abc.example",
		InvoiceNumber:   "INV-2025001",
		InvoiceDate:     "2025-02-14",
		DueDate:         "2025-02-28",
		CustomerName:    "Acme Corp",
		Items: []invoice.LineItem{
			{ItemName: "Web Development Service", Quantity: valueobject.MustQuantity(50), UnitPrice: amount("50"), TaxRate: amount("10"), TotalPrice: amount("2500")},
		},
		Subtotal:     amount("2272.73"),
		Tax:          amount("227.27"),
		TotalDue:     amount("2500"),
		PaymentTerms: "Net 14 days",
		Notes:        "Thank you for your business!",
		Currency:     valueobject.EUR,
	}
}

func placeholderDocument() *invoice.Document {
	doc := testDocument()
	doc.Items = append(doc.Items, invoice.LineItem{
		ItemName: "Hosting <Fee>", Quantity: valueobject.One(),
		UnitPrice: valueobject.PlaceholderAmount(), TaxRate: valueobject.PlaceholderAmount(), TotalPrice: valueobject.PlaceholderAmount(),
	})
	doc.Subtotal = valueobject.PlaceholderAmount()
	doc.Tax = valueobject.PlaceholderAmount()
	doc.TotalDue = valueobject.PlaceholderAmount()
	return doc
}

func TestCompanyMarkdown(t *testing.T) {
	t.Run("missing company", func(t *testing.T) {
		assert.Equal(t, "### Company does not exist", CompanyMarkdown(nil))
	})

	t.Run("items and customers", func(t *testing.T) {
		md := CompanyMarkdown(&catalog.Company{
			Profile: catalog.BusinessProfile{Name: "ABC Solutions", Address: "1 Main Street"},
			Items: []catalog.Item{
				{Name: "Logo Design", UnitPrice: decimal.NewFromInt(300), TaxRate: decimal.NewFromInt(20)},
			},
			Customers: []partner.Customer{{Name: "XYZ Enterprises"}, {Name: "Acme Corp", Contact: "ap@acme.example"}},
		})
		assert.Contains(t, md, "**Name**: ABC Solutions\n\n")
		assert.Contains(t, md, "**Contact**: N/A\n\n")
		assert.Contains(t, md, "| Logo Design | €300.00 | 20% |\n")
		assert.Contains(t, md, "**Customer 2**: Acme Corp\n\n")
	})

	t.Run("no items omits the table", func(t *testing.T) {
		md := CompanyMarkdown(&catalog.Company{Profile: catalog.BusinessProfile{Name: "Empty Co"}})
		assert.NotContains(t, md, "Available Items")
		assert.NotContains(t, md, "Customers")
	})
}

func TestInvoiceMarkdown(t *testing.T) {
	md := InvoiceMarkdown(testDocument())
	assert.Contains(t, md, "### Invoice INV-2025001")
	assert.Contains(t, md, "| Web Development Service | 50 | €50.00 | 10% | €2500.00 |")
	assert.Contains(t, md, "**Total Due**: €2500.00")

	md = InvoiceMarkdown(placeholderDocument())
	assert.Contains(t, md, "| Hosting <Fee> | 1 | PLACEHOLDER | PLACEHOLDER | PLACEHOLDER |")
	assert.Contains(t, md, "**Subtotal**: PLACEHOLDER")
}

func TestRenderInvoiceHTML(t *testing.T) {
	html, err := RenderInvoiceHTML(placeholderDocument())
	require.NoError(t, err)

	assert.Contains(t, html, "<h1 class=\"invoice-title\">ABC Solutions</h1>")
	assert.Contains(t, html, "#INV-2025001")
	assert.Contains(t, html, "€50.00")
	assert.Contains(t, html, "Hosting &lt;Fee&gt;")
	assert.Contains(t, html, `<span class="placeholder">PLACEHOLDER</span>`)
	assert.Contains(t, html, "Thank you for your business!")

	_, err = RenderInvoiceHTML(nil)
	assert.Error(t, err)
}

func TestRenderRejectionHTML(t *testing.T) {
	html, err := RenderRejectionHTML(invoice.NotInvoiceRejection())
	require.NoError(t, err)
	assert.Contains(t, html, "<p>INPUT IS NOT FOR A INVOICE</p>")
}

func TestRenderInvoiceXLSX(t *testing.T) {
	data, err := RenderInvoiceXLSX(placeholderDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue(invoiceSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "INV-2025001", v)

	v, err = f.GetCellValue(invoiceSheet, "A13")
	require.NoError(t, err)
	assert.Equal(t, "Web Development Service", v)

	v, err = f.GetCellValue(invoiceSheet, "C14")
	require.NoError(t, err)
	assert.Equal(t, "PLACEHOLDER", v)

	v, err = f.GetCellValue(invoiceSheet, "E18")
	require.NoError(t, err)
	assert.Equal(t, "PLACEHOLDER", v)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"md": FormatMarkdown, "HTML": FormatHTML, "excel": FormatXLSX, " pdf ": FormatPDF}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("docx")
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnsupportedFormat, re.Code)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*RenderResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRenderer) Close() error {
	return m.Called().Error(0)
}

func TestExporter_Export(t *testing.T) {
	ctx := context.Background()
	doc := testDocument()

	t.Run("markdown", func(t *testing.T) {
		out, err := NewExporter(nil, nil).Export(ctx, FormatMarkdown, doc)
		require.NoError(t, err)
		assert.Equal(t, "INV-2025001.md", out.Filename)
		assert.Equal(t, "text/markdown; charset=utf-8", out.ContentType)
	})

	t.Run("pdf without renderer", func(t *testing.T) {
		_, err := NewExporter(nil, nil).Export(ctx, FormatPDF, doc)
		var re *RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, ErrCodeRendererMissing, re.Code)
	})

	t.Run("pdf prints the html rendering", func(t *testing.T) {
		r := &mockRenderer{}
		r.On("Render", ctx, mock.MatchedBy(func(req *RenderRequest) bool {
			return req.PaperSize == PaperSizeA4 && req.Title == "Invoice INV-2025001" && bytes.Contains([]byte(req.HTML), []byte("ABC Solutions"))
		})).Return(&RenderResult{PDFData: []byte("%PDF-1.4")}, nil)
		r.On("Close").Return(nil)

		e := NewExporter(r, nil)
		out, err := e.Export(ctx, FormatPDF, doc)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", out.ContentType)
		assert.Equal(t, []byte("%PDF-1.4"), out.Data)
		require.NoError(t, e.Close())
		r.AssertExpectations(t)
	})

	t.Run("renderer failure", func(t *testing.T) {
		r := &mockRenderer{}
		r.On("Render", ctx, mock.Anything).Return(nil, NewRenderError(ErrCodeRenderTimeout, "timed out", errors.New("deadline")))
		_, err := NewExporter(r, nil).Export(ctx, FormatPDF, doc)
		assert.ErrorContains(t, err, "timed out")
	})
}

func TestValidateRequest(t *testing.T) {
	req := &RenderRequest{HTML: "<p>x</p>"}
	require.NoError(t, validateRequest(req))
	assert.Equal(t, PaperSizeA4, req.PaperSize)
	assert.Equal(t, DefaultMargins, req.Margins)

	assert.Error(t, validateRequest(&RenderRequest{HTML: "  "}))
	assert.Error(t, validateRequest(&RenderRequest{HTML: "<p>x</p>", PaperSize: "A0"}))
}

func TestCompleteHTML(t *testing.T) {
	assert.Equal(t, "<!DOCTYPE html><html></html>", completeHTML(&RenderRequest{HTML: "<!DOCTYPE html><html></html>"}))
	wrapped := completeHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}
