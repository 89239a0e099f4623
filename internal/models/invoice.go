package models

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID            uuid.UUID `db:"id"`
	ClaimID       uuid.UUID `db:"claim_id"`
	InvoiceNumber int       `db:"invoice_number"`
	Document      []byte    `db:"document"`
	DocumentName  string    `db:"document_name"`
	DocumentType  string    `db:"document_type"`
	CreatedAt     time.Time `db:"created_at"`
}

// InvoiceDocument is the structured model handed to the renderer.
type InvoiceDocument struct {
	InvoiceNumber   int
	IssueDate       time.Time
	LecturerAddress Address
	IssuerAddress   Address
	Claim           Claim
	Faculty         string
	Module          string
	BankName        string
	AccountNumber   string
	BranchCode      string
	Comments        string
}
