package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Report struct {
	ID           uuid.UUID `db:"id"`
	ReportNumber int       `db:"report_number"`
	Month        Month     `db:"-"`
	Module       string    `db:"module"`
	Document     []byte    `db:"document"`
	DocumentName string    `db:"document_name"`
	DocumentType string    `db:"document_type"`
	CreatedAt    time.Time `db:"created_at"`
}

// Aggregate holds descriptive statistics over one numeric column.
type Aggregate struct {
	Average decimal.Decimal
	Highest decimal.Decimal
	Lowest  decimal.Decimal
	Median  decimal.Decimal
}

// ReportStatistics is computed over approved claims only. When
// NoApprovedClaims is set every numeric field is zero.
type ReportStatistics struct {
	NoApprovedClaims  bool
	ApprovedCount     int
	SummedHours       decimal.Decimal
	SummedTotalAmount decimal.Decimal
	Hours             Aggregate
	TotalAmount       Aggregate
	HourlyRate        Aggregate
}

// ReportDocument is the structured model handed to the renderer.
type ReportDocument struct {
	ReportNumber   int
	GeneratedAt    time.Time
	Month          Month
	Module         string
	ApprovedClaims []Claim
	PendingClaims  []Claim
	Statistics     ReportStatistics
}
