package handlers

import (
	"cmcs/internal/dto"
	"cmcs/internal/models"
	"cmcs/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	validate      *validator.Validate
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		validate:      newValidator(),
		logger:        logger,
	}
}

// GenerateReport godoc
// @Summary Generate a monthly module report
// @Description Aggregates approved claims of the module in the month and archives the rendered PDF. Every call creates a new report.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.GenerateReportRequest true "Report window"
// @Security Bearer
// @Success 201 {object} dto.ReportResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/reports [post]
func (h *ReportHandler) GenerateReport(c *fiber.Ctx) error {
	var req dto.GenerateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if details := validateRequest(h.validate, &req); len(details) > 0 {
		return validationFailed(c, details)
	}
	month, err := models.ParseMonth(req.Month)
	if err != nil {
		return validationFailed(c, []dto.FieldError{{Field: "month", Message: err.Error()}})
	}

	report, err := h.reportService.GenerateReport(c.Context(), month, req.Module)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReportResponse(report))
}

// ListReports godoc
// @Summary List archived reports
// @Tags reports
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ReportResponse
// @Router /api/v1/reports [get]
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.reportService.ListReports(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.NewReportList(reports))
}

// Options godoc
// @Summary Months and modules that have claims to report on
// @Tags reports
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.ReportOptionsResponse
// @Router /api/v1/reports/options [get]
func (h *ReportHandler) Options(c *fiber.Ctx) error {
	opts, err := h.reportService.Options(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.NewReportOptions(opts.Months, opts.Modules))
}

// DownloadReport godoc
// @Summary Download an archived report PDF
// @Tags reports
// @Produce application/pdf
// @Param id path string true "Report ID"
// @Security Bearer
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reports/{id} [get]
func (h *ReportHandler) DownloadReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	report, err := h.reportService.GetReport(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return sendDocument(c, report.DocumentName, report.DocumentType, report.Document)
}
