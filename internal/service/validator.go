package service

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"cmcs/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 300
)

var (
	MaxHoursWorked = decimal.NewFromInt(50)
	MaxHourlyRate  = decimal.NewFromInt(500)
)

// ValidateClaim checks c against every persistence rule and returns all
// violations. An empty result means the claim is well formed. The claim is
// not modified.
func ValidateClaim(c *models.Claim, now time.Time) ValidationErrors {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.ID == uuid.Nil {
		add("id", "is required")
	}
	if c.LecturerID == uuid.Nil {
		add("lecturerId", "is required")
	}

	switch name := strings.TrimSpace(c.Name); {
	case name == "":
		add("name", "is required")
	case utf8.RuneCountInString(c.Name) > MaxNameLength:
		add("name", "must be at most %d characters", MaxNameLength)
	}

	switch desc := strings.TrimSpace(c.Description); {
	case desc == "":
		add("description", "is required")
	case utf8.RuneCountInString(c.Description) > MaxDescriptionLength:
		add("description", "must be at most %d characters", MaxDescriptionLength)
	}

	if c.ClaimDate.IsZero() {
		add("claimDate", "is required")
	} else if c.ClaimDate.After(now) {
		add("claimDate", "cannot be in the future")
	}

	if !c.HoursWorked.IsPositive() || c.HoursWorked.GreaterThan(MaxHoursWorked) {
		add("hoursWorked", "must be greater than 0 and at most %s", MaxHoursWorked)
	}
	if !c.HourlyRate.IsPositive() || c.HourlyRate.GreaterThan(MaxHourlyRate) {
		add("hourlyRate", "must be greater than 0 and at most %s", MaxHourlyRate)
	}
	if !c.AmountConsistent() {
		add("finalAmount", "must equal hours worked times hourly rate (%s)",
			models.ComputeFinalAmount(c.HoursWorked, c.HourlyRate).StringFixed(2))
	}

	if c.Status == "" {
		add("status", "is required")
	} else if !c.Status.Valid() {
		add("status", "unknown status %q", c.Status)
	}

	if len(c.Document) == 0 {
		add("document", "a supporting document is required")
	}
	if strings.TrimSpace(c.DocumentName) == "" {
		add("documentName", "is required")
	}
	if !slices.Contains(models.SupportingDocumentTypes, c.DocumentType) {
		add("documentType", "only PDF, DOCX and XLSX files are accepted")
	}

	return errs
}
