package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate(t *testing.T) {
	io := errors.New("connection reset")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "invoices_claim_id_key"}, ErrDuplicate},
		{"other pg error", &pgconn.PgError{Code: "23503"}, nil},
		{"io error", io, io},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			switch {
			case tt.in == nil:
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
			case tt.want == nil:
				if errors.Is(got, ErrNotFound) || errors.Is(got, ErrDuplicate) {
					t.Fatalf("%v must pass through untranslated", got)
				}
			case !errors.Is(got, tt.want):
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
