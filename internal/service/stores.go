package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmcs/internal/models"
	"cmcs/internal/render"
	"cmcs/internal/repository"

	"github.com/google/uuid"
)

// ClaimStore is the persistent claim collection. UpdateStatus must only
// write when the stored status equals expected, returning
// repository.ErrStatusMismatch otherwise.
type ClaimStore interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error)
	List(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.ClaimStatus) error
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// InvoiceStore must reject a second invoice for the same claim with
// repository.ErrDuplicate.
type InvoiceStore interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context) ([]*models.Invoice, error)
}

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context) ([]*models.Report, error)
}

// DocumentRenderer turns a structured document into PDF bytes.
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, doc *models.InvoiceDocument) ([]byte, error)
	RenderReport(ctx context.Context, doc *models.ReportDocument) ([]byte, error)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// storeError maps a repository failure onto the service taxonomy.
func storeError(op string, err error, notFound *Error) error {
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound
	}
	return transient(ErrStoreUnavailable, op, err)
}

// renderError classifies a renderer failure. Template failures repeat on
// every attempt, everything else is worth retrying.
func renderError(op string, err error) error {
	if errors.Is(err, render.ErrTemplate) {
		return ErrDocumentTemplate.with(fmt.Errorf("%s: %w", op, err))
	}
	return transient(ErrRenderFailed, op, err)
}
