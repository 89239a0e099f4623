package service

import (
	"context"
	"errors"
	"time"

	"cmcs/internal/models"
	"cmcs/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ClaimDraft is what a lecturer submits. A null HourlyRate falls back to the
// rate configured on the lecturer's account.
type ClaimDraft struct {
	LecturerID   uuid.UUID
	Name         string
	Description  string
	ClaimDate    time.Time
	HoursWorked  decimal.Decimal
	HourlyRate   decimal.NullDecimal
	Document     []byte
	DocumentName string
	DocumentType string
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

type ClaimService struct {
	claims  ClaimStore
	users   UserStore
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewClaimService(claims ClaimStore, users UserStore, timeout time.Duration, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		claims:  claims,
		users:   users,
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
}

// SubmitClaim validates the draft and stores it as a new Pending claim.
func (s *ClaimService) SubmitClaim(ctx context.Context, draft ClaimDraft) (*models.Claim, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	lecturer, err := s.users.GetByID(ctx, draft.LecturerID)
	if err != nil {
		return nil, storeError("load lecturer", err, ErrLecturerNotFound)
	}
	if lecturer.Role != models.RoleLecturer {
		return nil, ErrForbidden
	}
	if !lecturer.Approved {
		return nil, ErrLecturerNotApproved
	}

	rate := draft.HourlyRate.Decimal
	if !draft.HourlyRate.Valid && lecturer.HourlyRate.Valid {
		rate = lecturer.HourlyRate.Decimal
	}

	now := s.now().UTC()
	claim := &models.Claim{
		ID:           uuid.New(),
		LecturerID:   lecturer.ID,
		Name:         cleanText(draft.Name),
		Description:  cleanText(draft.Description),
		ClaimDate:    draft.ClaimDate,
		HoursWorked:  draft.HoursWorked,
		HourlyRate:   rate,
		FinalAmount:  models.ComputeFinalAmount(draft.HoursWorked, rate),
		Status:       models.ClaimStatusPending,
		Document:     draft.Document,
		DocumentName: cleanText(draft.DocumentName),
		DocumentType: draft.DocumentType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if verrs := ValidateClaim(claim, now); len(verrs) > 0 {
		s.logger.Warn("claim rejected by validation",
			zap.String("lecturer_id", lecturer.ID.String()),
			zap.Int("violations", len(verrs)),
		)
		return nil, verrs
	}

	if err := s.claims.Create(ctx, claim); err != nil {
		s.logger.Error("failed to store claim", zap.String("claim_id", claim.ID.String()), zap.Error(err))
		return nil, transient(ErrStoreUnavailable, "create claim", err)
	}

	s.logger.Info("claim submitted",
		zap.String("claim_id", claim.ID.String()),
		zap.String("lecturer_id", lecturer.ID.String()),
		zap.String("final_amount", claim.FinalAmount.StringFixed(2)),
	)
	return claim, nil
}

// DecideClaim moves a Pending claim to Approved or Rejected. The stored
// status is re-read and the write is conditioned on it, so a concurrent
// decision surfaces as ErrConcurrentUpdate instead of being overwritten.
func (s *ClaimService) DecideClaim(ctx context.Context, claimID uuid.UUID, decision models.Decision, actor models.Role) error {
	if !actor.Can(models.CapDecideClaim) {
		return ErrForbidden
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return storeError("load claim", err, ErrClaimNotFound)
	}

	next, err := transition(claim.Status, decision)
	if err != nil {
		s.logger.Warn("claim decision refused",
			zap.String("claim_id", claimID.String()),
			zap.String("status", string(claim.Status)),
			zap.String("decision", string(decision)),
			zap.Error(err),
		)
		return err
	}

	if !claim.AmountConsistent() {
		s.logger.Error("claim amount integrity violation",
			zap.String("claim_id", claimID.String()),
			zap.String("final_amount", claim.FinalAmount.String()),
			zap.String("hours_worked", claim.HoursWorked.String()),
			zap.String("hourly_rate", claim.HourlyRate.String()),
		)
		return ErrAmountMismatch
	}

	err = s.claims.UpdateStatus(ctx, claimID, claim.Status, next)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStatusMismatch):
		s.logger.Warn("concurrent claim decision detected", zap.String("claim_id", claimID.String()))
		return ErrConcurrentUpdate
	case errors.Is(err, repository.ErrNotFound):
		return ErrClaimNotFound
	default:
		s.logger.Error("failed to update claim status", zap.String("claim_id", claimID.String()), zap.Error(err))
		return transient(ErrStoreUnavailable, "update claim status", err)
	}

	s.logger.Info("claim decided",
		zap.String("claim_id", claimID.String()),
		zap.String("status", string(next)),
		zap.String("role", string(actor)),
	)
	return nil
}

func (s *ClaimService) GetClaim(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claim, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load claim", err, ErrClaimNotFound)
	}
	return claim, nil
}

// ListLecturerClaims returns a lecturer's own claims, oldest first.
func (s *ClaimService) ListLecturerClaims(ctx context.Context, lecturerID uuid.UUID) ([]*models.Claim, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claims, err := s.claims.List(ctx, models.ClaimFilter{LecturerID: lecturerID})
	if err != nil {
		return nil, storeError("list claims", err, nil)
	}
	return claims, nil
}

// ListClaims lists claims for approvers. An empty status selects every
// status the role may see; an empty faculty selects all faculties.
func (s *ClaimService) ListClaims(ctx context.Context, role models.Role, status models.ClaimStatus, faculty string) ([]*models.Claim, error) {
	var statuses []models.ClaimStatus
	switch status {
	case "":
		if role.Can(models.CapViewPendingClaims) {
			statuses = append(statuses, models.ClaimStatusPending)
		}
		if role.Can(models.CapViewDecidedClaims) {
			statuses = append(statuses, models.ClaimStatusApproved, models.ClaimStatusRejected)
		}
	case models.ClaimStatusPending:
		if role.Can(models.CapViewPendingClaims) {
			statuses = append(statuses, status)
		}
	case models.ClaimStatusApproved, models.ClaimStatusRejected:
		if role.Can(models.CapViewDecidedClaims) {
			statuses = append(statuses, status)
		}
	default:
		return nil, ValidationErrors{{Field: "status", Message: "must be Pending, Approved or Rejected"}}
	}
	if len(statuses) == 0 {
		return nil, ErrForbidden
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claims, err := s.claims.List(ctx, models.ClaimFilter{Statuses: statuses, Faculty: faculty})
	if err != nil {
		return nil, storeError("list claims", err, nil)
	}
	return claims, nil
}

// GetSupportingDocument returns the claim with its uploaded document.
// Lecturers may only read their own.
func (s *ClaimService) GetSupportingDocument(ctx context.Context, claimID uuid.UUID, actor Actor) (*models.Claim, error) {
	if !actor.Role.Can(models.CapViewSupportingDocument) {
		return nil, ErrForbidden
	}
	claim, err := s.GetClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleLecturer && claim.LecturerID != actor.UserID {
		return nil, ErrForbidden
	}
	return claim, nil
}
