package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/invoicer/backend/internal/application/catalog"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
)

// CompanyHandler serves company data and item confirmation
type CompanyHandler struct {
	BaseHandler
	svc *appcatalog.Service
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(svc *appcatalog.Service) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// GetCompany returns the profile, items and customers of a company.
// With ?format=markdown it renders the Markdown overview, which reports a
// missing company in its body instead of a 404.
//
// GET /companies/:id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	companyID := c.Param("id")
	ctx := c.Request.Context()

	if format := strings.ToLower(c.Query("format")); format == "markdown" || format == "md" {
		md, err := h.svc.CompanyMarkdown(ctx, companyID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}

	company, err := h.svc.GetCompany(ctx, companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appcatalog.ToCompanyResponse(company))
}

// ConfirmItems writes confirmed New items to the catalog
//
// POST /companies/:id/items/confirm
func (h *CompanyHandler) ConfirmItems(c *gin.Context) {
	var req appcatalog.ConfirmItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	resp, err := h.svc.ConfirmItems(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
