package repository

import (
	"context"
	"time"

	"cmcs/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReportRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReportRepository(db *pgxpool.Pool, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := squirrel.Insert("reports").
		Columns("id", "report_number", "month", "module", "document", "document_name", "document_type", "created_at").
		Values(report.ID, report.ReportNumber, report.Month.Start(), report.Module, report.Document, report.DocumentName, report.DocumentType, report.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translate(err)
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query := squirrel.Select("id", "report_number", "month", "module", "document", "document_name", "document_type", "created_at").
		From("reports").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var report models.Report
	var month time.Time
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&report.ID, &report.ReportNumber, &month, &report.Module, &report.Document, &report.DocumentName, &report.DocumentType, &report.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	report.Month = models.MonthOf(month)

	return &report, nil
}

// List returns report metadata, newest first. Document bytes are omitted.
func (r *ReportRepository) List(ctx context.Context) ([]*models.Report, error) {
	query := squirrel.Select("id", "report_number", "month", "module", "document_name", "document_type", "created_at").
		From("reports").
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

	var reports []*models.Report
	for rows.Next() {
		var report models.Report
		var month time.Time
		if err := rows.Scan(
			&report.ID, &report.ReportNumber, &month, &report.Module, &report.DocumentName, &report.DocumentType, &report.CreatedAt,
		); err != nil {
			return nil, err
		}
		report.Month = models.MonthOf(month)
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}
