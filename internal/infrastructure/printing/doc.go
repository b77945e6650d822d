// Package printing renders invoice documents and company overviews for export:
// Markdown, HTML, XLSX and PDF. PDFs are printed from the HTML rendering by a
// headless Chrome driven over the DevTools protocol.
package printing
