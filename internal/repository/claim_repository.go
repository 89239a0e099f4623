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

type ClaimRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewClaimRepository(db *pgxpool.Pool, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

var claimColumns = []string{
	"c.id", "c.lecturer_id", "c.name", "c.description", "c.claim_date", "c.hours_worked", "c.hourly_rate",
	"c.final_amount", "c.status", "c.document_name", "c.document_type", "c.created_at", "c.updated_at",
}

func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	query := squirrel.Insert("claims").
		Columns("id", "lecturer_id", "name", "description", "claim_date", "hours_worked", "hourly_rate",
			"final_amount", "status", "document", "document_name", "document_type", "created_at", "updated_at").
		Values(claim.ID, claim.LecturerID, claim.Name, claim.Description, claim.ClaimDate, claim.HoursWorked, claim.HourlyRate,
			claim.FinalAmount, claim.Status, claim.Document, claim.DocumentName, claim.DocumentType, claim.CreatedAt, claim.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translate(err)
}

// GetByID returns the claim including its supporting document bytes.
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	query := squirrel.Select(append(claimColumns[:len(claimColumns):len(claimColumns)], "c.document")...).
		From("claims c").
		Where(squirrel.Eq{"c.id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var claim models.Claim
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&claim.ID, &claim.LecturerID, &claim.Name, &claim.Description, &claim.ClaimDate, &claim.HoursWorked, &claim.HourlyRate,
		&claim.FinalAmount, &claim.Status, &claim.DocumentName, &claim.DocumentType, &claim.CreatedAt, &claim.UpdatedAt,
		&claim.Document,
	)
	if err != nil {
		return nil, translate(err)
	}

	return &claim, nil
}

// List returns matching claims joined with their lecturer, without document
// bytes, oldest claim date first.
func (r *ClaimRepository) List(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, error) {
	columns := append(claimColumns[:len(claimColumns):len(claimColumns)],
		"u.first_name", "u.surname", "u.email", "u.faculty", "u.module")

	query := squirrel.Select(columns...).
		From("claims c").
		Join("users u ON u.id = c.lecturer_id").
		OrderBy("c.claim_date ASC", "c.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.LecturerID != uuid.Nil {
		query = query.Where(squirrel.Eq{"c.lecturer_id": filter.LecturerID})
	}
	if filter.Module != "" {
		query = query.Where(squirrel.Eq{"u.module": filter.Module})
	}
	if filter.Faculty != "" {
		query = query.Where(squirrel.Eq{"u.faculty": filter.Faculty})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where(squirrel.Eq{"c.status": statuses})
	}
	if !filter.From.IsZero() {
		query = query.Where(squirrel.GtOrEq{"c.claim_date": filter.From})
	}
	if !filter.To.IsZero() {
		query = query.Where(squirrel.Lt{"c.claim_date": filter.To})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*models.Claim
	for rows.Next() {
		var claim models.Claim
		lecturer := &models.User{}
		if err := rows.Scan(
			&claim.ID, &claim.LecturerID, &claim.Name, &claim.Description, &claim.ClaimDate, &claim.HoursWorked, &claim.HourlyRate,
			&claim.FinalAmount, &claim.Status, &claim.DocumentName, &claim.DocumentType, &claim.CreatedAt, &claim.UpdatedAt,
			&lecturer.FirstName, &lecturer.Surname, &lecturer.Email, &lecturer.Faculty, &lecturer.Module,
		); err != nil {
			return nil, err
		}
		lecturer.ID = claim.LecturerID
		claim.Lecturer = lecturer
		claims = append(claims, &claim)
	}

	return claims, rows.Err()
}

// UpdateStatus moves the claim from expected to next in a single conditional
// write. ErrStatusMismatch means another writer got there first.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.ClaimStatus) error {
	query := squirrel.Update("claims").
		Set("status", next).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "status": expected}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	r.logger.Debug("Conditional status update lost",
		zap.String("claim_id", id.String()),
		zap.String("expected", string(expected)),
	)
	return ErrStatusMismatch
}

func (r *ClaimRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := squirrel.Select("1").
		Prefix("SELECT EXISTS (").
		From("claims").
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
