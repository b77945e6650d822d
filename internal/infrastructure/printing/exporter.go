package printing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/invoice"
)

// Format is an export output format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
)

var contentTypes = map[Format]string{
	FormatMarkdown: "text/markdown; charset=utf-8",
	FormatHTML:     "text/html; charset=utf-8",
	FormatXLSX:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:      "application/pdf",
}

var extensions = map[Format]string{
	FormatMarkdown: "md",
	FormatHTML:     "html",
	FormatXLSX:     "xlsx",
	FormatPDF:      "pdf",
}

// ParseFormat accepts a format name or file extension, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", NewRenderError(ErrCodeUnsupportedFormat, "unsupported export format: "+s, nil)
}

// Output is a rendered file
type Output struct {
	Format      Format
	ContentType string
	Filename    string
	Data        []byte
}

// Exporter renders invoice documents in every supported format
type Exporter struct {
	pdf    PDFRenderer
	logger *zap.Logger
}

// NewExporter creates an exporter. A nil pdf renderer disables PDF output.
func NewExporter(pdf PDFRenderer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{pdf: pdf, logger: logger}
}

// Export renders doc as format
func (e *Exporter) Export(ctx context.Context, format Format, doc *invoice.Document) (*Output, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "invoice document is nil", nil)
	}
	var data []byte
	switch format {
	case FormatMarkdown:
		data = []byte(InvoiceMarkdown(doc))
	case FormatHTML:
		html, err := RenderInvoiceHTML(doc)
		if err != nil {
			return nil, err
		}
		data = []byte(html)
	case FormatXLSX:
		b, err := RenderInvoiceXLSX(doc)
		if err != nil {
			return nil, NewRenderError(ErrCodeRenderFailed, "xlsx export failed", err)
		}
		data = b
	case FormatPDF:
		if e.pdf == nil {
			return nil, NewRenderError(ErrCodeRendererMissing, "PDF rendering is not configured", nil)
		}
		html, err := RenderInvoiceHTML(doc)
		if err != nil {
			return nil, err
		}
		res, err := e.pdf.Render(ctx, &RenderRequest{HTML: html, PaperSize: PaperSizeA4, Title: "Invoice " + doc.InvoiceNumber})
		if err != nil {
			return nil, err
		}
		data = res.PDFData
	default:
		return nil, NewRenderError(ErrCodeUnsupportedFormat, "unsupported export format: "+string(format), nil)
	}

	e.logger.Debug("invoice exported",
		zap.String("format", string(format)),
		zap.String("invoice_number", doc.InvoiceNumber),
		zap.Int("bytes", len(data)),
	)
	return &Output{
		Format:      format,
		ContentType: contentTypes[format],
		Filename:    filename(doc.InvoiceNumber, format),
		Data:        data,
	}, nil
}

// Close releases the PDF renderer
func (e *Exporter) Close() error {
	if e.pdf == nil {
		return nil
	}
	return e.pdf.Close()
}

func filename(number string, format Format) string {
	base := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, number)
	if base == "" {
		base = "invoice"
	}
	return base + "." + extensions[format]
}
