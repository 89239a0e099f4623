package dto

import (
	"time"

	"cmcs/internal/models"
)

// GenerateReportRequest selects the report window. Month accepts "2024-03"
// or "March 2024".
type GenerateReportRequest struct {
	Month  string `json:"month" validate:"required"`
	Module string `json:"module" validate:"required,max=100"`
}

type ReportResponse struct {
	ID           string `json:"id"`
	ReportNumber int    `json:"report_number"`
	Month        string `json:"month"`
	MonthLabel   string `json:"month_label"`
	Module       string `json:"module"`
	DocumentName string `json:"document_name"`
	DocumentType string `json:"document_type"`
	CreatedAt    string `json:"created_at"`
}

type MonthOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ReportOptionsResponse struct {
	Months  []MonthOption `json:"months"`
	Modules []string      `json:"modules"`
}

func NewReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:           r.ID.String(),
		ReportNumber: r.ReportNumber,
		Month:        r.Month.String(),
		MonthLabel:   r.Month.Label(),
		Module:       r.Module,
		DocumentName: r.DocumentName,
		DocumentType: r.DocumentType,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}

func NewReportList(reports []*models.Report) []ReportResponse {
	out := make([]ReportResponse, len(reports))
	for i, r := range reports {
		out[i] = NewReportResponse(r)
	}
	return out
}

func NewReportOptions(months []models.Month, modules []string) ReportOptionsResponse {
	resp := ReportOptionsResponse{
		Months:  make([]MonthOption, len(months)),
		Modules: modules,
	}
	for i, m := range months {
		resp.Months[i] = MonthOption{Value: m.String(), Label: m.Label()}
	}
	return resp
}
