// Package memory is an in-process implementation of the claim, user,
// invoice and report stores. Writes honour the same conditional semantics as
// the Postgres repositories: status updates compare-and-swap and invoices are
// unique per claim.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"cmcs/internal/models"
	"cmcs/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	Users    *UserRepository
	Claims   *ClaimRepository
	Invoices *InvoiceRepository
	Reports  *ReportRepository
}

func New() *Store {
	users := &UserRepository{data: map[uuid.UUID]models.User{}}
	return &Store{
		Users:    users,
		Claims:   &ClaimRepository{users: users, data: map[uuid.UUID]models.Claim{}},
		Invoices: &InvoiceRepository{data: map[uuid.UUID]models.Invoice{}},
		Reports:  &ReportRepository{data: map[uuid.UUID]models.Report{}},
	}
}

type UserRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]models.User
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[user.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, u := range r.data {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.data[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.data {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type ClaimRepository struct {
	users *UserRepository
	mu    sync.RWMutex
	data  map[uuid.UUID]models.Claim
}

func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[claim.ID]; ok {
		return repository.ErrDuplicate
	}
	c := *claim
	c.Document = slices.Clone(claim.Document)
	c.Lecturer = nil
	r.data[c.ID] = c
	return nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Document = slices.Clone(c.Document)
	return &c, nil
}

func (r *ClaimRepository) List(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var claims []*models.Claim
	for _, c := range r.data {
		lecturer, err := r.users.GetByID(ctx, c.LecturerID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !matches(filter, &c, lecturer) {
			continue
		}
		c.Document = nil
		c.Lecturer = lecturer
		claims = append(claims, &c)
	}

	slices.SortFunc(claims, func(a, b *models.Claim) int {
		if n := a.ClaimDate.Compare(b.ClaimDate); n != 0 {
			return n
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return claims, nil
}

func matches(f models.ClaimFilter, c *models.Claim, lecturer *models.User) bool {
	if f.LecturerID != uuid.Nil && c.LecturerID != f.LecturerID {
		return false
	}
	if f.Module != "" && lecturer.Module != f.Module {
		return false
	}
	if f.Faculty != "" && lecturer.Faculty != f.Faculty {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, c.Status) {
		return false
	}
	if !f.From.IsZero() && c.ClaimDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !c.ClaimDate.Before(f.To) {
		return false
	}
	return true
}

func (r *ClaimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.ClaimStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return repository.ErrNotFound
	}
	if c.Status != expected {
		return repository.ErrStatusMismatch
	}
	c.Status = next
	c.UpdatedAt = time.Now().UTC()
	r.data[id] = c
	return nil
}

// Put overwrites a stored claim verbatim, bypassing every check. Tests use it
// to plant corrupted rows.
func (r *ClaimRepository) Put(claim models.Claim) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[claim.ID] = claim
}

type InvoiceRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]models.Invoice
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.ClaimID == invoice.ClaimID {
			return repository.ErrDuplicate
		}
	}
	inv := *invoice
	inv.Document = slices.Clone(invoice.Document)
	r.data[inv.ID] = inv
	return nil
}

func (r *InvoiceRepository) GetByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.data {
		if inv.ClaimID == claimID {
			inv.Document = slices.Clone(inv.Document)
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	invoices := make([]*models.Invoice, 0, len(r.data))
	for _, inv := range r.data {
		inv.Document = nil
		invoices = append(invoices, &inv)
	}
	slices.SortFunc(invoices, func(a, b *models.Invoice) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return invoices, nil
}

type ReportRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]models.Report
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[report.ID]; ok {
		return repository.ErrDuplicate
	}
	rep := *report
	rep.Document = slices.Clone(report.Document)
	r.data[rep.ID] = rep
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rep.Document = slices.Clone(rep.Document)
	return &rep, nil
}

func (r *ReportRepository) List(ctx context.Context) ([]*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	reports := make([]*models.Report, 0, len(r.data))
	for _, rep := range r.data {
		rep.Document = nil
		reports = append(reports, &rep)
	}
	slices.SortFunc(reports, func(a, b *models.Report) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return reports, nil
}
