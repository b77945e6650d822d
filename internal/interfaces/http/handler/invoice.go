package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appinvoice "github.com/invoicer/backend/internal/application/invoice"
	"github.com/invoicer/backend/internal/infrastructure/printing"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler serves invoice generation, completion and export
type InvoiceHandler struct {
	BaseHandler
	svc *appinvoice.Service
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(svc *appinvoice.Service) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Generate turns a free-text request into an invoice or a rejection. Both are
// 200 responses; ?raw=true returns only the invoice or rejection document.
//
// POST /companies/:id/invoices
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req appinvoice.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	resp, err := h.svc.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, resp)
}

// Complete re-runs a draft with values supplied for New items
//
// POST /companies/:id/invoices/complete
func (h *InvoiceHandler) Complete(c *gin.Context) {
	var req appinvoice.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	resp, err := h.svc.Complete(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, resp)
}

// Export renders a document as markdown, html, xlsx or pdf
//
// POST /companies/:id/invoices/export?format=xlsx
func (h *InvoiceHandler) Export(c *gin.Context) {
	format, err := printing.ParseFormat(c.DefaultQuery("format", string(printing.FormatPDF)))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req appinvoice.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	out, err := h.svc.Export(c.Request.Context(), format, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

func (h *InvoiceHandler) respond(c *gin.Context, resp *appinvoice.GenerateResponse) {
	if raw, _ := strconv.ParseBool(c.Query("raw")); raw {
		c.JSON(http.StatusOK, resp.Output())
		return
	}
	h.Success(c, resp)
}
