package handlers

import (
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"cmcs/internal/dto"
	"cmcs/internal/models"
	"cmcs/internal/service"
	"cmcs/pkg/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var extensionTypes = map[string]string{
	".pdf":  models.MediaTypePDF,
	".docx": models.MediaTypeDOCX,
	".xlsx": models.MediaTypeXLSX,
}

type ClaimHandler struct {
	claimService *service.ClaimService
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewClaimHandler(claimService *service.ClaimService, logger *zap.Logger) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
		validate:     newValidator(),
		logger:       logger,
	}
}

// SubmitClaim godoc
// @Summary Submit a monthly claim
// @Description Lecturer submits hours worked with a supporting PDF, DOCX or XLSX document. The final amount is computed as hours times rate.
// @Tags claims
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Claim name (max 100 characters)"
// @Param description formData string true "Description (max 300 characters)"
// @Param claim_date formData string true "Claim date, YYYY-MM-DD"
// @Param hours_worked formData number true "Hours worked (0 < h <= 50)"
// @Param hourly_rate formData number false "Hourly rate; defaults to the lecturer's rate"
// @Param document formData file true "Supporting document"
// @Security Bearer
// @Success 201 {object} dto.ClaimResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/claims [post]
func (h *ClaimHandler) SubmitClaim(c *fiber.Ctx) error {
	var req dto.SubmitClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form body")
	}
	details := validateRequest(h.validate, &req)

	file, err := c.FormFile("document")
	if err != nil {
		details = append(details, dto.FieldError{Field: "document", Message: "a supporting document is required"})
	}
	if len(details) > 0 {
		return validationFailed(c, details)
	}

	claimDate, err := time.Parse(time.DateOnly, req.ClaimDate)
	if err != nil {
		return validationFailed(c, []dto.FieldError{{Field: "claim_date", Message: "must be a date formatted as 2006-01-02"}})
	}
	hours, err := decimal.NewFromString(req.HoursWorked)
	if err != nil {
		return validationFailed(c, []dto.FieldError{{Field: "hours_worked", Message: "must be a number"}})
	}
	var rate decimal.NullDecimal
	if req.HourlyRate != "" {
		if rate.Decimal, err = decimal.NewFromString(req.HourlyRate); err != nil {
			return validationFailed(c, []dto.FieldError{{Field: "hourly_rate", Message: "must be a number"}})
		}
		rate.Valid = true
	}

	src, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to open document")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to read document")
	}

	claim, err := h.claimService.SubmitClaim(c.Context(), service.ClaimDraft{
		LecturerID:   middleware.UserID(c),
		Name:         req.Name,
		Description:  req.Description,
		ClaimDate:    claimDate,
		HoursWorked:  hours,
		HourlyRate:   rate,
		Document:     data,
		DocumentName: filepath.Base(file.Filename),
		DocumentType: documentType(file.Filename, file.Header.Get(fiber.HeaderContentType)),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewClaimResponse(claim))
}

// documentType trusts the declared type unless the client sent a generic one,
// in which case the file extension decides.
func documentType(filename, declared string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err == nil && mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}
	return extensionTypes[strings.ToLower(filepath.Ext(filename))]
}

// ListMyClaims godoc
// @Summary List the caller's claims
// @Tags claims
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ClaimResponse
// @Router /api/v1/claims/mine [get]
func (h *ClaimHandler) ListMyClaims(c *fiber.Ctx) error {
	claims, err := h.claimService.ListLecturerClaims(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.NewClaimList(claims))
}

// ListClaims godoc
// @Summary List claims for review
// @Description Academic managers see pending claims; HR may also filter by approved or rejected.
// @Tags claims
// @Produce json
// @Param status query string false "Pending, Approved or Rejected"
// @Param faculty query string false "Faculty name"
// @Security Bearer
// @Success 200 {array} dto.ClaimResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/claims [get]
func (h *ClaimHandler) ListClaims(c *fiber.Ctx) error {
	status := models.ClaimStatus(c.Query("status"))
	claims, err := h.claimService.ListClaims(c.Context(), middleware.Role(c), status, c.Query("faculty"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.NewClaimList(claims))
}

// DownloadDocument godoc
// @Summary Download a claim's supporting document
// @Tags claims
// @Produce application/octet-stream
// @Param id path string true "Claim ID"
// @Security Bearer
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id}/document [get]
func (h *ClaimHandler) DownloadDocument(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	claim, err := h.claimService.GetSupportingDocument(c.Context(), id, service.Actor{
		UserID: middleware.UserID(c),
		Role:   middleware.Role(c),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return sendDocument(c, claim.DocumentName, claim.DocumentType, claim.Document)
}

// ApproveClaim godoc
// @Summary Approve a pending claim
// @Tags claims
// @Produce json
// @Param id path string true "Claim ID"
// @Security Bearer
// @Success 200 {object} dto.DecisionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id}/approve [post]
func (h *ClaimHandler) ApproveClaim(c *fiber.Ctx) error {
	return h.decide(c, models.DecisionApprove, models.ClaimStatusApproved)
}

// RejectClaim godoc
// @Summary Reject a pending claim
// @Tags claims
// @Produce json
// @Param id path string true "Claim ID"
// @Security Bearer
// @Success 200 {object} dto.DecisionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id}/reject [post]
func (h *ClaimHandler) RejectClaim(c *fiber.Ctx) error {
	return h.decide(c, models.DecisionReject, models.ClaimStatusRejected)
}

func (h *ClaimHandler) decide(c *fiber.Ctx, decision models.Decision, result models.ClaimStatus) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.claimService.DecideClaim(c.Context(), id, decision, middleware.Role(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DecisionResponse{ID: id.String(), Status: string(result)})
}
