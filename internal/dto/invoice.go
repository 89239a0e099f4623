package dto

import (
	"time"

	"cmcs/internal/models"
)

type InvoiceResponse struct {
	ID            string `json:"id"`
	ClaimID       string `json:"claim_id"`
	InvoiceNumber int    `json:"invoice_number"`
	DocumentName  string `json:"document_name"`
	DocumentType  string `json:"document_type"`
	CreatedAt     string `json:"created_at"`
}

func NewInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID.String(),
		ClaimID:       inv.ClaimID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		DocumentName:  inv.DocumentName,
		DocumentType:  inv.DocumentType,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
}

func NewInvoiceList(invoices []*models.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = NewInvoiceResponse(inv)
	}
	return out
}
