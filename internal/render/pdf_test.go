package render

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"cmcs/internal/models"
	"cmcs/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newRenderer(t *testing.T) *PDFRenderer {
	t.Helper()
	r, err := NewPDFRenderer(config.RenderConfig{TimeZone: "Africa/Johannesburg", Timeout: 20 * time.Second}, zap.NewNop())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func sampleInvoice() *models.InvoiceDocument {
	hours, rate := decimal.NewFromInt(10), decimal.RequireFromString("1250")
	return &models.InvoiceDocument{
		InvoiceNumber:   48213377,
		IssueDate:       time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC),
		LecturerAddress: models.Address{Name: "Thandi Mokoena", Street: "12 Oak Road", City: "Pretoria", Province: "Gauteng"},
		IssuerAddress:   models.Address{Name: "Contract Monthly Claims System", PhoneNumber: "011 682 7901"},
		Claim: models.Claim{
			ID:          uuid.MustParse("6f1d3c4e-0b8a-4c57-9a57-1f9c2e6c1a10"),
			Name:        "Tutorials <week 1>",
			ClaimDate:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			HoursWorked: hours,
			HourlyRate:  rate,
			FinalAmount: models.ComputeFinalAmount(hours, rate),
		},
		Module:   "PROG6212",
		BankName: "FNB",
		Comments: "Thank you.\nContact support.",
	}
}

func TestInvoiceHTML(t *testing.T) {
	html, err := newRenderer(t).InvoiceHTML(sampleInvoice())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"Invoice #48213377",
		"6f1d3c4e-0b8a-4c57-9a57-1f9c2e6c1a10",
		"Thandi Mokoena",
		"R 12,500.00",
		"01 Apr 2024",
		"Tutorials &lt;week 1&gt;",
		"<div>Contact support.&nbsp;</div>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("invoice html missing %q", want)
		}
	}
}

func TestReportHTML(t *testing.T) {
	r := newRenderer(t)
	lecturer := &models.User{FirstName: "Sipho", Surname: "Dlamini"}
	claim := sampleInvoice().Claim
	claim.Lecturer = lecturer

	doc := &models.ReportDocument{
		ReportNumber:   402118,
		GeneratedAt:    time.Date(2024, 4, 2, 10, 30, 0, 0, time.UTC),
		Month:          models.Month{Year: 2024, Month: time.March},
		Module:         "PROG6212",
		ApprovedClaims: []models.Claim{claim},
		Statistics: models.ReportStatistics{
			ApprovedCount:     1,
			SummedTotalAmount: claim.FinalAmount,
			TotalAmount:       models.Aggregate{Median: claim.FinalAmount},
		},
	}
	html, err := r.ReportHTML(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Claims report #402118", "March 2024", "Sipho Dlamini", "02 Apr 2024 12:30", "R 12,500.00", "None"} {
		if !strings.Contains(html, want) {
			t.Errorf("report html missing %q", want)
		}
	}

	doc.Statistics = models.ReportStatistics{NoApprovedClaims: true}
	doc.ApprovedClaims = nil
	html, err = r.ReportHTML(doc)
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(html, "No approved claims for this month and module.") {
		t.Error("empty report must state that no claims were approved")
	}
}

func TestMoney(t *testing.T) {
	tests := map[string]string{
		"0":           "R 0.00",
		"999.5":       "R 999.50",
		"1000":        "R 1,000.00",
		"1234567.891": "R 1,234,567.89",
		"-2500":       "R -2,500.00",
	}
	for in, want := range tests {
		if got := money(decimal.RequireFromString(in)); got != want {
			t.Errorf("money(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderInvoicePDF(t *testing.T) {
	if testing.Short() {
		t.Skip("requires headless Chromium")
	}
	found := false
	for _, bin := range []string{"chromium", "chromium-browser", "google-chrome", "headless-shell"} {
		if _, err := exec.LookPath(bin); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no Chromium binary on PATH")
	}

	pdf, err := newRenderer(t).RenderInvoice(context.Background(), sampleInvoice())
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Fatalf("output is not a PDF (%d bytes)", len(pdf))
	}
}

func TestTemplateFailureIsMarked(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.InvoiceHTML(nil); !errors.Is(err, ErrTemplate) {
		t.Fatalf("invoice: got %v, want ErrTemplate", err)
	}
	if _, err := r.RenderReport(context.Background(), nil); !errors.Is(err, ErrTemplate) {
		t.Fatalf("report: got %v, want ErrTemplate", err)
	}
}
