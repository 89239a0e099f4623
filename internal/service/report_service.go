package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"cmcs/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ReportService struct {
	claims   ClaimStore
	reports  ReportStore
	renderer DocumentRenderer
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewReportService(claims ClaimStore, reports ReportStore, renderer DocumentRenderer, timeout time.Duration, logger *zap.Logger) *ReportService {
	return &ReportService{
		claims:   claims,
		reports:  reports,
		renderer: renderer,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// ReportOptions lists the months and modules that currently have approved or
// pending claims.
type ReportOptions struct {
	Months  []models.Month
	Modules []string
}

// GenerateReport aggregates the approved claims of module in month, renders
// them together with the pending ones and archives the result as a new
// Report. Repeated calls create independent reports.
func (s *ReportService) GenerateReport(ctx context.Context, month models.Month, module string) (*models.Report, error) {
	module = strings.TrimSpace(module)
	var verrs ValidationErrors
	if month.IsZero() {
		verrs = append(verrs, FieldError{Field: "month", Message: "is required"})
	}
	if module == "" {
		verrs = append(verrs, FieldError{Field: "module", Message: "is required"})
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	approved, pending, err := s.partitions(ctx, month, module)
	if err != nil {
		s.logger.Error("failed to load report claims",
			zap.String("month", month.String()),
			zap.String("module", module),
			zap.Error(err),
		)
		return nil, transient(ErrStoreUnavailable, "list claims", err)
	}
	for _, c := range slices.Concat(approved, pending) {
		if !c.AmountConsistent() {
			s.logger.Error("claim amount integrity violation",
				zap.String("claim_id", c.ID.String()),
				zap.String("status", string(c.Status)),
			)
			return nil, ErrAmountMismatch
		}
	}

	generated := s.now().UTC()
	doc := &models.ReportDocument{
		ReportNumber:   newReportNumber(),
		GeneratedAt:    generated,
		Month:          month,
		Module:         module,
		ApprovedClaims: approved,
		PendingClaims:  pending,
		Statistics:     Summarize(approved),
	}

	pdf, err := s.renderer.RenderReport(ctx, doc)
	if err != nil {
		s.logger.Error("failed to render report", zap.String("module", module), zap.Error(err))
		return nil, renderError("render report", err)
	}

	report := &models.Report{
		ID:           uuid.New(),
		ReportNumber: doc.ReportNumber,
		Month:        month,
		Module:       module,
		Document:     pdf,
		DocumentName: ReportDocumentName(module, month),
		DocumentType: models.MediaTypePDF,
		CreatedAt:    generated,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		s.logger.Error("failed to store report", zap.String("report_id", report.ID.String()), zap.Error(err))
		return nil, transient(ErrStoreUnavailable, "create report", err)
	}

	s.logger.Info("report generated",
		zap.String("report_id", report.ID.String()),
		zap.String("month", month.String()),
		zap.String("module", module),
		zap.Int("approved", len(approved)),
		zap.Int("pending", len(pending)),
	)
	return report, nil
}

// partitions loads the approved and pending claims of the report window
// concurrently.
func (s *ReportService) partitions(ctx context.Context, month models.Month, module string) (approved, pending []models.Claim, err error) {
	load := func(ctx context.Context, status models.ClaimStatus, dst *[]models.Claim) error {
		claims, err := s.claims.List(ctx, models.ClaimFilter{
			Module:   module,
			Statuses: []models.ClaimStatus{status},
			From:     month.Start(),
			To:       month.End(),
		})
		if err != nil {
			return fmt.Errorf("%s claims: %w", strings.ToLower(string(status)), err)
		}
		out := make([]models.Claim, len(claims))
		for i, c := range claims {
			out[i] = *c
		}
		*dst = out
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return load(gctx, models.ClaimStatusApproved, &approved) })
	g.Go(func() error { return load(gctx, models.ClaimStatusPending, &pending) })
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return approved, pending, nil
}

// ReportDocumentName is the download name of a report, e.g.
// "Report (PROG6212 - Mar 2024).pdf".
func ReportDocumentName(module string, month models.Month) string {
	return fmt.Sprintf("Report (%s - %s).pdf", module, month.Start().Format("Jan 2006"))
}

func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load report", err, ErrReportNotFound)
	}
	return report, nil
}

// ListReports returns archived report metadata, newest first.
func (s *ReportService) ListReports(ctx context.Context) ([]*models.Report, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, storeError("list reports", err, nil)
	}
	return reports, nil
}

// Options returns the distinct months (ascending) and modules (alphabetical)
// among approved and pending claims.
func (s *ReportService) Options(ctx context.Context) (*ReportOptions, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claims, err := s.claims.List(ctx, models.ClaimFilter{
		Statuses: []models.ClaimStatus{models.ClaimStatusApproved, models.ClaimStatusPending},
	})
	if err != nil {
		return nil, storeError("list claims", err, nil)
	}

	months := map[models.Month]struct{}{}
	modules := map[string]struct{}{}
	for _, c := range claims {
		months[models.MonthOf(c.ClaimDate)] = struct{}{}
		if c.Lecturer != nil && c.Lecturer.Module != "" {
			modules[c.Lecturer.Module] = struct{}{}
		}
	}

	opts := &ReportOptions{
		Months:  make([]models.Month, 0, len(months)),
		Modules: make([]string, 0, len(modules)),
	}
	for m := range months {
		opts.Months = append(opts.Months, m)
	}
	for m := range modules {
		opts.Modules = append(opts.Modules, m)
	}
	slices.SortFunc(opts.Months, func(a, b models.Month) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	slices.Sort(opts.Modules)
	return opts, nil
}
