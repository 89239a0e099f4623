package repository

import (
	"context"

	"cmcs/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// UserRepository reads users owned by the account-management side. The
// claims core only writes users when seeding.
type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

var userColumns = []string{
	"id", "first_name", "surname", "email", "phone_number", "street_address", "area_address", "city", "province",
	"role", "approved", "faculty", "module", "hourly_rate", "bank_name", "account_number", "branch_code",
	"created_at", "updated_at",
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.FirstName, user.Surname, user.Email, user.PhoneNumber, user.StreetAddress, user.AreaAddress, user.City, user.Province,
			user.Role, user.Approved, user.Faculty, user.Module, user.HourlyRate, user.BankName, user.AccountNumber, user.BranchCode,
			user.CreatedAt, user.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translate(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.FirstName, &user.Surname, &user.Email, &user.PhoneNumber, &user.StreetAddress, &user.AreaAddress, &user.City, &user.Province,
		&user.Role, &user.Approved, &user.Faculty, &user.Module, &user.HourlyRate, &user.BankName, &user.AccountNumber, &user.BranchCode,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}
