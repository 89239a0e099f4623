package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID            uuid.UUID           `db:"id"`
	FirstName     string              `db:"first_name"`
	Surname       string              `db:"surname"`
	Email         string              `db:"email"`
	PhoneNumber   string              `db:"phone_number"`
	StreetAddress string              `db:"street_address"`
	AreaAddress   string              `db:"area_address"`
	City          string              `db:"city"`
	Province      string              `db:"province"`
	Role          Role                `db:"role"`
	Approved      bool                `db:"approved"`
	Faculty       string              `db:"faculty"`
	Module        string              `db:"module"`
	HourlyRate    decimal.NullDecimal `db:"hourly_rate"`
	BankName      string              `db:"bank_name"`
	AccountNumber string              `db:"account_number"`
	BranchCode    string              `db:"branch_code"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.Surname)
}

// Address returns the user's postal details as printed on an invoice.
func (u *User) Address() Address {
	return Address{
		Name:        u.FullName(),
		Street:      u.StreetAddress,
		Area:        u.AreaAddress,
		City:        u.City,
		Province:    u.Province,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
	}
}

type Address struct {
	Name        string `json:"name" yaml:"name"`
	Street      string `json:"street" yaml:"street"`
	Area        string `json:"area" yaml:"area"`
	City        string `json:"city" yaml:"city"`
	Province    string `json:"province" yaml:"province"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
	Email       string `json:"email" yaml:"email"`
}
