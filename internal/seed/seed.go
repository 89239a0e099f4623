// Package seed loads a YAML fixture of staff accounts and claims into a
// store. Records that already exist are skipped, so a fixture can be applied
// repeatedly.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cmcs/internal/models"
	"cmcs/internal/repository"
	"cmcs/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// placeholderDocument stands in for the supporting document of seeded claims.
var placeholderDocument = []byte("%PDF-1.4\n%seeded timesheet\n%%EOF\n")

type Fixture struct {
	Users  []User  `yaml:"users"`
	Claims []Claim `yaml:"claims"`
}

type User struct {
	ID            uuid.UUID `yaml:"id"`
	FirstName     string    `yaml:"first_name"`
	Surname       string    `yaml:"surname"`
	Email         string    `yaml:"email"`
	PhoneNumber   string    `yaml:"phone_number"`
	Role          string    `yaml:"role"`
	Approved      bool      `yaml:"approved"`
	Faculty       string    `yaml:"faculty"`
	Module        string    `yaml:"module"`
	HourlyRate    string    `yaml:"hourly_rate"`
	StreetAddress string    `yaml:"street_address"`
	AreaAddress   string    `yaml:"area_address"`
	City          string    `yaml:"city"`
	Province      string    `yaml:"province"`
	BankName      string    `yaml:"bank_name"`
	AccountNumber string    `yaml:"account_number"`
	BranchCode    string    `yaml:"branch_code"`
}

type Claim struct {
	ID          uuid.UUID `yaml:"id"`
	Lecturer    string    `yaml:"lecturer"` // email
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Date        string    `yaml:"date"`
	Hours       string    `yaml:"hours"`
	Rate        string    `yaml:"rate"`
	Status      string    `yaml:"status"`
}

type UserWriter interface {
	Create(ctx context.Context, user *models.User) error
}

type ClaimWriter interface {
	Create(ctx context.Context, claim *models.Claim) error
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.ClaimStatus) error
}

func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a fixture, rejecting unknown keys.
func Load(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fx, nil
}

// Apply writes the fixture's users, then its claims. Claims are created
// Pending and moved to their fixture status through the conditional update.
// Users are returned with their resolved IDs.
func Apply(ctx context.Context, fx *Fixture, users UserWriter, claims ClaimWriter, logger *zap.Logger) ([]*models.User, error) {
	now := time.Now().UTC()
	byEmail := make(map[string]*models.User, len(fx.Users))
	created := make([]*models.User, 0, len(fx.Users))

	for i, u := range fx.Users {
		user, err := u.model(now)
		if err != nil {
			return nil, fmt.Errorf("user %d (%s): %w", i, u.Email, err)
		}
		if err := users.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("create user %s: %w", u.Email, err)
		}
		byEmail[strings.ToLower(user.Email)] = user
		created = append(created, user)
	}

	inserted := 0
	for i, c := range fx.Claims {
		lecturer, ok := byEmail[strings.ToLower(c.Lecturer)]
		if !ok {
			return nil, fmt.Errorf("claim %d: unknown lecturer %q", i, c.Lecturer)
		}
		claim, err := c.model(lecturer, now)
		if err != nil {
			return nil, fmt.Errorf("claim %d (%s): %w", i, c.Name, err)
		}
		status := claim.Status
		claim.Status = models.ClaimStatusPending
		if verrs := service.ValidateClaim(claim, now); len(verrs) > 0 {
			return nil, fmt.Errorf("claim %d (%s): %w", i, c.Name, verrs)
		}

		err = claims.Create(ctx, claim)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create claim %s: %w", claim.ID, err)
		}
		if status != models.ClaimStatusPending {
			if err := claims.UpdateStatus(ctx, claim.ID, models.ClaimStatusPending, status); err != nil {
				return nil, fmt.Errorf("set claim %s to %s: %w", claim.ID, status, err)
			}
		}
		inserted++
	}

	logger.Info("Fixture applied",
		zap.Int("users", len(created)),
		zap.Int("claims_inserted", inserted),
		zap.Int("claims_total", len(fx.Claims)),
	)
	return created, nil
}

func (u User) model(now time.Time) (*models.User, error) {
	role, err := models.ParseRole(u.Role)
	if err != nil {
		return nil, err
	}
	id := u.ID
	if id == uuid.Nil {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(u.Email)))
	}
	user := &models.User{
		ID:            id,
		FirstName:     u.FirstName,
		Surname:       u.Surname,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		StreetAddress: u.StreetAddress,
		AreaAddress:   u.AreaAddress,
		City:          u.City,
		Province:      u.Province,
		Role:          role,
		Approved:      u.Approved,
		Faculty:       u.Faculty,
		Module:        u.Module,
		BankName:      u.BankName,
		AccountNumber: u.AccountNumber,
		BranchCode:    u.BranchCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if u.HourlyRate != "" {
		rate, err := decimal.NewFromString(u.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("hourly_rate: %w", err)
		}
		user.HourlyRate = decimal.NewNullDecimal(rate)
	}
	return user, nil
}

func (c Claim) model(lecturer *models.User, now time.Time) (*models.Claim, error) {
	date, err := time.Parse(time.DateOnly, c.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	hours, err := decimal.NewFromString(c.Hours)
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	rate := lecturer.HourlyRate.Decimal
	if c.Rate != "" {
		if rate, err = decimal.NewFromString(c.Rate); err != nil {
			return nil, fmt.Errorf("rate: %w", err)
		}
	}
	status := models.ClaimStatusPending
	if c.Status != "" {
		status = models.ClaimStatus(c.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status %q", c.Status)
		}
	}

	id := c.ID
	if id == uuid.Nil {
		id = uuid.NewSHA1(lecturer.ID, []byte(c.Date+"|"+c.Name))
	}
	return &models.Claim{
		ID:           id,
		LecturerID:   lecturer.ID,
		Name:         c.Name,
		Description:  c.Description,
		ClaimDate:    date,
		HoursWorked:  hours,
		HourlyRate:   rate,
		FinalAmount:  models.ComputeFinalAmount(hours, rate),
		Status:       status,
		Document:     placeholderDocument,
		DocumentName: "timesheet.pdf",
		DocumentType: models.MediaTypePDF,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
