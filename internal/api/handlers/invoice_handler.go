package handlers

import (
	"cmcs/internal/dto"
	"cmcs/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// IssueInvoice godoc
// @Summary Issue the invoice of an approved claim
// @Description Renders and archives the claim's single invoice. A second call for the same claim returns 409.
// @Tags invoices
// @Produce json
// @Param id path string true "Claim ID"
// @Security Bearer
// @Success 201 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id}/invoice [post]
func (h *InvoiceHandler) IssueInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	invoice, err := h.invoiceService.IssueInvoice(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInvoiceResponse(invoice))
}

// DownloadInvoice godoc
// @Summary Download a claim's invoice PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Claim ID"
// @Security Bearer
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id}/invoice [get]
func (h *InvoiceHandler) DownloadInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	invoice, err := h.invoiceService.GetInvoiceByClaimID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return sendDocument(c, invoice.DocumentName, invoice.DocumentType, invoice.Document)
}

// ListInvoices godoc
// @Summary List issued invoices
// @Tags invoices
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.InvoiceResponse
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	invoices, err := h.invoiceService.ListInvoices(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.NewInvoiceList(invoices))
}

// ListCandidates godoc
// @Summary List approved claims that have no invoice yet
// @Tags invoices
// @Produce json
// @Param faculty query string false "Faculty name"
// @Security Bearer
// @Success 200 {array} dto.ClaimResponse
// @Router /api/v1/invoices/candidates [get]
func (h *InvoiceHandler) ListCandidates(c *fiber.Ctx) error {
	claims, err := h.invoiceService.ListInvoiceCandidates(c.Context(), c.Query("faculty"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.NewClaimList(claims))
}
