package repository

import (
	"context"

	"cmcs/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type InvoiceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInvoiceRepository(db *pgxpool.Pool, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the invoice. The UNIQUE constraint on claim_id turns a
// second invoice for the same claim into ErrDuplicate.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	query := squirrel.Insert("invoices").
		Columns("id", "claim_id", "invoice_number", "document", "document_name", "document_type", "created_at").
		Values(invoice.ID, invoice.ClaimID, invoice.InvoiceNumber, invoice.Document, invoice.DocumentName, invoice.DocumentType, invoice.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translate(err)
}

func (r *InvoiceRepository) GetByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Invoice, error) {
	query := squirrel.Select("id", "claim_id", "invoice_number", "document", "document_name", "document_type", "created_at").
		From("invoices").
		Where(squirrel.Eq{"claim_id": claimID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var invoice models.Invoice
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&invoice.ID, &invoice.ClaimID, &invoice.InvoiceNumber, &invoice.Document, &invoice.DocumentName, &invoice.DocumentType, &invoice.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}

	return &invoice, nil
}

// List returns invoice metadata, newest first. Document bytes are omitted.
func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	query := squirrel.Select("id", "claim_id", "invoice_number", "document_name", "document_type", "created_at").
		From("invoices").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var invoice models.Invoice
		if err := rows.Scan(
			&invoice.ID, &invoice.ClaimID, &invoice.InvoiceNumber, &invoice.DocumentName, &invoice.DocumentType, &invoice.CreatedAt,
		); err != nil {
			return nil, err
		}
		invoices = append(invoices, &invoice)
	}

	return invoices, rows.Err()
}
