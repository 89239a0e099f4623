package handlers

import (
	"errors"
	"reflect"
	"strings"

	"cmcs/internal/dto"
	"cmcs/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// newValidator reports fields under their wire names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

func validateRequest(v *validator.Validate, req any) []dto.FieldError {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []dto.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]dto.FieldError, len(verrs))
	for i, fe := range verrs {
		out[i] = dto.FieldError{Field: fe.Field(), Message: ruleMessage(fe)}
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "numeric":
		return "must be a number"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}

func validationFailed(c *fiber.Ctx, details []dto.FieldError) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
		Error:   "The request contains invalid fields",
		Code:    "validation_failed",
		Details: details,
	})
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// respondError writes the status and body that match the failure kind. Each
// kind keeps its own message so callers can tell a retryable failure from a
// permanent one.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]dto.FieldError, len(verrs))
		for i, fe := range verrs {
			details[i] = dto.FieldError{Field: fe.Field, Message: fe.Message}
		}
		return validationFailed(c, details)
	}

	body := dto.ErrorResponse{Error: "Internal server error", Code: "internal"}
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		body.Error, body.Code = svcErr.Message, svcErr.Code
	}

	status := fiber.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindValidation:
		status = fiber.StatusUnprocessableEntity
	case service.KindNotFound:
		status = fiber.StatusNotFound
	case service.KindConflict:
		status = fiber.StatusConflict
	case service.KindForbidden:
		status = fiber.StatusForbidden
	case service.KindTransient:
		status = fiber.StatusServiceUnavailable
		body.Retryable = true
		if svcErr == nil {
			body.Error, body.Code = "The operation timed out, try again later", "timeout"
		}
		logger.Error("Transient failure", zap.String("path", c.Path()), zap.Error(err))
	case service.KindIntegrity:
		logger.Error("Data integrity violation", zap.String("path", c.Path()), zap.Error(err))
	default:
		logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

// sendDocument streams a stored file as a download.
func sendDocument(c *fiber.Ctx, name, mediaType string, data []byte) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, mediaType)
	return c.Send(data)
}
