package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"cmcs/internal/models"
	"cmcs/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

type stubRenderer struct {
	mu       sync.Mutex
	err      error
	block    bool
	invoices []*models.InvoiceDocument
	reports  []*models.ReportDocument
}

func (r *stubRenderer) RenderInvoice(ctx context.Context, doc *models.InvoiceDocument) ([]byte, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = append(r.invoices, doc)
	return []byte("%PDF-invoice"), nil
}

func (r *stubRenderer) RenderReport(ctx context.Context, doc *models.ReportDocument) ([]byte, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, doc)
	return []byte("%PDF-report"), nil
}

func (r *stubRenderer) wait(ctx context.Context) error {
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.err
}

type fixture struct {
	store    *memory.Store
	renderer *stubRenderer
	claims   *ClaimService
	invoices *InvoiceService
	reports  *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	renderer := &stubRenderer{}
	logger := zap.NewNop()
	issuer := Issuer{
		Address: models.Address{
			Name:        "Contract Monthly Claims System",
			PhoneNumber: "011 682 7901",
			Email:       "claims@cmcs.edu.za",
		},
		SupportEmail: "support@cmcs.edu.za",
	}

	f := &fixture{
		store:    store,
		renderer: renderer,
		claims:   NewClaimService(store.Claims, store.Users, time.Second, logger),
		invoices: NewInvoiceService(store.Claims, store.Users, store.Invoices, renderer, issuer, time.Second, logger),
		reports:  NewReportService(store.Claims, store.Reports, renderer, time.Second, logger),
	}
	clock := func() time.Time { return fixedNow }
	f.claims.now = clock
	f.invoices.now = clock
	f.reports.now = clock
	return f
}

func (f *fixture) lecturer(t *testing.T, module string, rate string) *models.User {
	t.Helper()
	u := &models.User{
		ID:            uuid.New(),
		FirstName:     "Thandi",
		Surname:       "Mokoena",
		Email:         uuid.NewString() + "@cmcs.edu.za",
		Role:          models.RoleLecturer,
		Approved:      true,
		Faculty:       "Information Technology",
		Module:        module,
		BankName:      "FNB",
		AccountNumber: "62000000001",
		BranchCode:    "250655",
	}
	if rate != "" {
		u.HourlyRate = decimal.NewNullDecimal(decimal.RequireFromString(rate))
	}
	if err := f.store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create lecturer: %v", err)
	}
	return u
}

func draft(lecturerID uuid.UUID, hours, rate string, date time.Time) ClaimDraft {
	d := ClaimDraft{
		LecturerID:   lecturerID,
		Name:         "March tutorials",
		Description:  "Weekly tutorial sessions",
		ClaimDate:    date,
		HoursWorked:  decimal.RequireFromString(hours),
		Document:     []byte("%PDF-1.7 timesheet"),
		DocumentName: "timesheet.pdf",
		DocumentType: models.MediaTypePDF,
	}
	if rate != "" {
		d.HourlyRate = decimal.NewNullDecimal(decimal.RequireFromString(rate))
	}
	return d
}

// submit stores a claim through the service and optionally decides it.
func (f *fixture) submit(t *testing.T, lecturer *models.User, hours, rate string, date time.Time, decision models.Decision) *models.Claim {
	t.Helper()
	ctx := context.Background()
	claim, err := f.claims.SubmitClaim(ctx, draft(lecturer.ID, hours, rate, date))
	if err != nil {
		t.Fatalf("submit claim: %v", err)
	}
	if decision != "" {
		if err := f.claims.DecideClaim(ctx, claim.ID, decision, models.RoleHR); err != nil {
			t.Fatalf("decide claim: %v", err)
		}
	}
	return claim
}
