package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "Pending"
	ClaimStatusApproved ClaimStatus = "Approved"
	ClaimStatusRejected ClaimStatus = "Rejected"
)

// Terminal reports whether no further transition exists out of the status.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// Decision is an approver's verdict on a pending claim.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Supporting document media types accepted on submission.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var SupportingDocumentTypes = []string{MediaTypePDF, MediaTypeDOCX, MediaTypeXLSX}

type Claim struct {
	ID           uuid.UUID       `db:"id"`
	LecturerID   uuid.UUID       `db:"lecturer_id"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	ClaimDate    time.Time       `db:"claim_date"`
	HoursWorked  decimal.Decimal `db:"hours_worked"`
	HourlyRate   decimal.Decimal `db:"hourly_rate"`
	FinalAmount  decimal.Decimal `db:"final_amount"`
	Status       ClaimStatus     `db:"status"`
	Document     []byte          `db:"document"`
	DocumentName string          `db:"document_name"`
	DocumentType string          `db:"document_type"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`

	// Lecturer is populated by list queries that join the owning user.
	Lecturer *User `db:"-"`
}

// ComputeFinalAmount returns hours × rate rounded half to even at two
// decimal places.
func ComputeFinalAmount(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate).RoundBank(2)
}

// AmountConsistent reports whether FinalAmount matches hours × rate.
func (c *Claim) AmountConsistent() bool {
	return c.FinalAmount.Equal(ComputeFinalAmount(c.HoursWorked, c.HourlyRate))
}

// ClaimFilter narrows listClaims queries. Zero values mean "any".
type ClaimFilter struct {
	LecturerID uuid.UUID
	Module     string
	Faculty    string
	Statuses   []ClaimStatus
	From       time.Time // inclusive
	To         time.Time // exclusive
}
