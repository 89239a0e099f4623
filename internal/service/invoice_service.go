package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmcs/internal/models"
	"cmcs/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Issuer is the fixed sender printed on every invoice.
type Issuer struct {
	Address      models.Address
	SupportEmail string
}

type InvoiceService struct {
	claims   ClaimStore
	users    UserStore
	invoices InvoiceStore
	renderer DocumentRenderer
	issuer   Issuer
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewInvoiceService(
	claims ClaimStore,
	users UserStore,
	invoices InvoiceStore,
	renderer DocumentRenderer,
	issuer Issuer,
	timeout time.Duration,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		claims:   claims,
		users:    users,
		invoices: invoices,
		renderer: renderer,
		issuer:   issuer,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// IssueInvoice renders and stores the single invoice of an Approved claim.
// A second call for the same claim fails with ErrInvoiceAlreadyExists; the
// store's uniqueness constraint settles concurrent attempts.
func (s *InvoiceService) IssueInvoice(ctx context.Context, claimID uuid.UUID) (*models.Invoice, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, storeError("load claim", err, ErrClaimNotFound)
	}
	if claim.Status != models.ClaimStatusApproved {
		s.logger.Warn("invoice refused for unapproved claim",
			zap.String("claim_id", claimID.String()),
			zap.String("status", string(claim.Status)),
		)
		return nil, ErrClaimNotApproved
	}
	if !claim.AmountConsistent() {
		s.logger.Error("claim amount integrity violation", zap.String("claim_id", claimID.String()))
		return nil, ErrAmountMismatch
	}

	switch _, err := s.invoices.GetByClaimID(ctx, claimID); {
	case err == nil:
		return nil, ErrInvoiceAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, transient(ErrStoreUnavailable, "find invoice", err)
	}

	lecturer, err := s.users.GetByID(ctx, claim.LecturerID)
	if err != nil {
		return nil, storeError("load lecturer", err, ErrLecturerNotFound)
	}

	issued := s.now().UTC()
	doc := &models.InvoiceDocument{
		InvoiceNumber:   newInvoiceNumber(),
		IssueDate:       issued,
		LecturerAddress: lecturer.Address(),
		IssuerAddress:   s.issuer.Address,
		Claim:           *claim,
		Faculty:         lecturer.Faculty,
		Module:          lecturer.Module,
		BankName:        lecturer.BankName,
		AccountNumber:   lecturer.AccountNumber,
		BranchCode:      lecturer.BranchCode,
		Comments:        s.comment(claim.ID),
	}
	doc.Claim.Document = nil

	pdf, err := s.renderer.RenderInvoice(ctx, doc)
	if err != nil {
		s.logger.Error("failed to render invoice", zap.String("claim_id", claimID.String()), zap.Error(err))
		return nil, renderError("render invoice", err)
	}

	invoice := &models.Invoice{
		ID:            uuid.New(),
		ClaimID:       claim.ID,
		InvoiceNumber: doc.InvoiceNumber,
		Document:      pdf,
		DocumentName:  InvoiceDocumentName(claim.ID),
		DocumentType:  models.MediaTypePDF,
		CreatedAt:     issued,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Warn("concurrent invoice issuance lost", zap.String("claim_id", claimID.String()))
			return nil, ErrInvoiceAlreadyExists
		}
		s.logger.Error("failed to store invoice", zap.String("claim_id", claimID.String()), zap.Error(err))
		return nil, transient(ErrStoreUnavailable, "create invoice", err)
	}

	s.logger.Info("invoice issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("claim_id", claimID.String()),
		zap.Int("invoice_number", invoice.InvoiceNumber),
	)
	return invoice, nil
}

func (s *InvoiceService) comment(claimID uuid.UUID) string {
	return fmt.Sprintf("Thank you for your valuable contribution to our institution.\n"+
		"This claim invoice (Claim ID: %s) has been issued for your payment.\n"+
		"If you have any questions or require further clarification, please contact us at %s or via email at %s.\n\n"+
		"We appreciate your dedication to academic excellence.",
		claimID, s.issuer.Address.PhoneNumber, s.issuer.SupportEmail)
}

// InvoiceDocumentName is the download name of a claim's invoice.
func InvoiceDocumentName(claimID uuid.UUID) string {
	return fmt.Sprintf("Invoice_%s.pdf", claimID)
}

func (s *InvoiceService) GetInvoiceByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Invoice, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	invoice, err := s.invoices.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, storeError("find invoice", err, ErrInvoiceNotFound)
	}
	return invoice, nil
}

// ListInvoices returns invoice metadata, newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, storeError("list invoices", err, nil)
	}
	return invoices, nil
}

// ListInvoiceCandidates returns approved claims that have no invoice yet.
// An empty faculty selects all faculties.
func (s *InvoiceService) ListInvoiceCandidates(ctx context.Context, faculty string) ([]*models.Claim, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	approved, err := s.claims.List(ctx, models.ClaimFilter{
		Statuses: []models.ClaimStatus{models.ClaimStatusApproved},
		Faculty:  faculty,
	})
	if err != nil {
		return nil, storeError("list claims", err, nil)
	}
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, storeError("list invoices", err, nil)
	}

	invoiced := make(map[uuid.UUID]struct{}, len(invoices))
	for _, inv := range invoices {
		invoiced[inv.ClaimID] = struct{}{}
	}
	candidates := make([]*models.Claim, 0, len(approved))
	for _, c := range approved {
		if _, ok := invoiced[c.ID]; !ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}
