package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/response"
	"github.com/stemsi/daycare-backend/internal/service"
	"github.com/stemsi/daycare-backend/internal/validator"
)

// InvoiceHandler handles invoice generation and retrieval.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	log            zerolog.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *service.InvoiceService, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		log:            log.With().Str("component", "invoice_handler").Logger(),
	}
}

// PreviewInvoice godoc
// GET /api/v1/admin/students/:id/invoices/preview?kind=current|next|consolidated
// Returns the line items without storing anything.
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var q model.GenerateInvoiceRequest
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	preview, err := h.invoiceService.Preview(c.Request.Context(), studentID, q.Kind)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// GenerateInvoice godoc
// POST /api/v1/admin/students/:id/invoices
// Stores the invoice and answers with its PDF. A period with nothing to bill
// answers 422 EMPTY_INVOICE explaining why.
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.GenerateInvoiceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inv, pdf, err := h.invoiceService.Generate(c.Request.Context(), actorID(c), studentID, req.Kind)
	if err != nil {
		if inv != nil {
			h.log.Error().Err(err).Int("invoice_id", inv.ID).Msg("Invoice stored without document")
			response.FailWithMessage(c, http.StatusServiceUnavailable, response.ErrRenderUnavailable,
				fmt.Sprintf("Invoice %s was stored but its document could not be rendered.", service.InvoiceNumber(inv.ID)))
			return
		}
		fail(c, h.log, err)
		return
	}

	c.Header("X-Invoice-ID", fmt.Sprint(inv.ID))
	attachment(c, "application/pdf", service.InvoiceNumber(inv.ID)+".pdf", pdf)
}

// ListInvoices godoc
// GET /api/v1/admin/students/:id/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), studentID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, invoices)
}

// DownloadInvoice godoc
// GET /api/v1/admin/students/:id/invoices/:invoice_id/pdf
func (h *InvoiceHandler) DownloadInvoice(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	invoiceID, ok := paramID(c, "invoice_id")
	if !ok {
		return
	}

	inv, pdf, err := h.invoiceService.Download(c.Request.Context(), studentID, invoiceID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	attachment(c, "application/pdf", service.InvoiceNumber(inv.ID)+".pdf", pdf)
}
