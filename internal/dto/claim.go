package dto

import (
	"time"

	"cmcs/internal/models"
)

// SubmitClaimRequest is the multipart form of a claim submission. The
// supporting document travels in the "document" file part.
type SubmitClaimRequest struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"required,max=300"`
	ClaimDate   string `form:"claim_date" validate:"required,datetime=2006-01-02"`
	HoursWorked string `form:"hours_worked" validate:"required,numeric"`
	HourlyRate  string `form:"hourly_rate" validate:"omitempty,numeric"`
}

type ClaimResponse struct {
	ID           string `json:"id"`
	LecturerID   string `json:"lecturer_id"`
	LecturerName string `json:"lecturer_name,omitempty"`
	Faculty      string `json:"faculty,omitempty"`
	Module       string `json:"module,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ClaimDate    string `json:"claim_date"`
	HoursWorked  string `json:"hours_worked"`
	HourlyRate   string `json:"hourly_rate"`
	FinalAmount  string `json:"final_amount"`
	Status       string `json:"status"`
	DocumentName string `json:"document_name"`
	DocumentType string `json:"document_type"`
	CreatedAt    string `json:"created_at"`
}

type DecisionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewClaimResponse(c *models.Claim) ClaimResponse {
	resp := ClaimResponse{
		ID:           c.ID.String(),
		LecturerID:   c.LecturerID.String(),
		Name:         c.Name,
		Description:  c.Description,
		ClaimDate:    c.ClaimDate.Format(time.DateOnly),
		HoursWorked:  c.HoursWorked.String(),
		HourlyRate:   c.HourlyRate.StringFixed(2),
		FinalAmount:  c.FinalAmount.StringFixed(2),
		Status:       string(c.Status),
		DocumentName: c.DocumentName,
		DocumentType: c.DocumentType,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
	if c.Lecturer != nil {
		resp.LecturerName = c.Lecturer.FullName()
		resp.Faculty = c.Lecturer.Faculty
		resp.Module = c.Lecturer.Module
	}
	return resp
}

func NewClaimList(claims []*models.Claim) []ClaimResponse {
	out := make([]ClaimResponse, len(claims))
	for i, c := range claims {
		out[i] = NewClaimResponse(c)
	}
	return out
}
