package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cmcs/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var march = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func TestSubmitClaimComputesAmountAndDefaultsRate(t *testing.T) {
	f := newFixture(t)
	lecturer := f.lecturer(t, "PROG6212", "420.50")

	claim, err := f.claims.SubmitClaim(context.Background(), draft(lecturer.ID, "2.5", "", march))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if claim.Status != models.ClaimStatusPending {
		t.Errorf("status = %s, want Pending", claim.Status)
	}
	if !claim.HourlyRate.Equal(decimal.RequireFromString("420.50")) {
		t.Errorf("rate = %s, want lecturer default", claim.HourlyRate)
	}
	if !claim.FinalAmount.Equal(decimal.RequireFromString("1051.25")) {
		t.Errorf("final amount = %s, want 1051.25", claim.FinalAmount)
	}

	stored, err := f.store.Claims.GetByID(context.Background(), claim.ID)
	if err != nil {
		t.Fatalf("stored claim: %v", err)
	}
	if !stored.AmountConsistent() {
		t.Error("stored claim is inconsistent")
	}
}

func TestSubmitClaimSanitizesText(t *testing.T) {
	f := newFixture(t)
	lecturer := f.lecturer(t, "PROG6212", "")
	d := draft(lecturer.ID, "1", "100", march)
	d.Name = "  Lab\xffs  "

	claim, err := f.claims.SubmitClaim(context.Background(), d)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if claim.Name != "Labs" {
		t.Errorf("name = %q, want %q", claim.Name, "Labs")
	}
}

func TestSubmitClaimValidation(t *testing.T) {
	f := newFixture(t)
	lecturer := f.lecturer(t, "PROG6212", "")

	d := draft(lecturer.ID, "60", "", fixedNow.Add(48*time.Hour))
	d.DocumentType = "text/plain"
	_, err := f.claims.SubmitClaim(context.Background(), d)

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	got := map[string]bool{}
	for _, fe := range verrs {
		got[fe.Field] = true
	}
	for _, field := range []string{"hoursWorked", "hourlyRate", "claimDate", "documentType"} {
		if !got[field] {
			t.Errorf("missing violation for %s in %v", field, verrs)
		}
	}
	if KindOf(err) != KindValidation {
		t.Errorf("kind = %s", KindOf(err))
	}

	claims, _ := f.store.Claims.List(context.Background(), models.ClaimFilter{})
	if len(claims) != 0 {
		t.Fatal("invalid claim was stored")
	}
}

func TestSubmitClaimLecturerChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.claims.SubmitClaim(ctx, draft(uuid.New(), "1", "100", march)); !errors.Is(err, ErrLecturerNotFound) {
		t.Errorf("unknown lecturer: got %v", err)
	}

	pending := f.lecturer(t, "PROG6212", "")
	pending.Approved = false
	pending.ID = uuid.New()
	pending.Email = "pending@cmcs.edu.za"
	_ = f.store.Users.Create(ctx, pending)
	if _, err := f.claims.SubmitClaim(ctx, draft(pending.ID, "1", "100", march)); !errors.Is(err, ErrLecturerNotApproved) {
		t.Errorf("unapproved lecturer: got %v", err)
	}

	manager := &models.User{ID: uuid.New(), Email: "am@cmcs.edu.za", Role: models.RoleAcademicManager, Approved: true}
	_ = f.store.Users.Create(ctx, manager)
	if _, err := f.claims.SubmitClaim(ctx, draft(manager.ID, "1", "100", march)); !errors.Is(err, ErrForbidden) {
		t.Errorf("manager submission: got %v", err)
	}
}

func TestDecideClaimTerminality(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")

	approved := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)
	rejected := f.submit(t, lecturer, "10", "50", march, models.DecisionReject)

	tests := []struct {
		name     string
		id       uuid.UUID
		decision models.Decision
		want     error
		status   models.ClaimStatus
	}{
		{"re-approve", approved.ID, models.DecisionApprove, ErrClaimAlreadyApproved, models.ClaimStatusApproved},
		{"reject approved", approved.ID, models.DecisionReject, ErrApprovedClaimCannotBeRejected, models.ClaimStatusApproved},
		{"re-reject", rejected.ID, models.DecisionReject, ErrClaimAlreadyRejected, models.ClaimStatusRejected},
		{"approve rejected", rejected.ID, models.DecisionApprove, ErrRejectedClaimCannotBeApproved, models.ClaimStatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.claims.DecideClaim(ctx, tt.id, tt.decision, models.RoleAcademicManager)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if KindOf(err) != KindConflict {
				t.Errorf("kind = %s, want conflict", KindOf(err))
			}
			stored, _ := f.store.Claims.GetByID(ctx, tt.id)
			if stored.Status != tt.status {
				t.Errorf("status changed to %s", stored.Status)
			}
		})
	}
}

func TestDecideClaimErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, "")

	if err := f.claims.DecideClaim(ctx, claim.ID, models.DecisionApprove, models.RoleLecturer); !errors.Is(err, ErrForbidden) {
		t.Errorf("lecturer decision: got %v", err)
	}
	if err := f.claims.DecideClaim(ctx, uuid.New(), models.DecisionApprove, models.RoleHR); !errors.Is(err, ErrClaimNotFound) {
		t.Errorf("missing claim: got %v", err)
	}
	if err := f.claims.DecideClaim(ctx, claim.ID, "maybe", models.RoleHR); !errors.Is(err, ErrUnknownDecision) {
		t.Errorf("unknown decision: got %v", err)
	}
}

func TestDecideClaimRefusesCorruptAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, "")

	corrupt, _ := f.store.Claims.GetByID(ctx, claim.ID)
	corrupt.FinalAmount = decimal.NewFromInt(9999)
	f.store.Claims.Put(*corrupt)

	err := f.claims.DecideClaim(ctx, claim.ID, models.DecisionApprove, models.RoleHR)
	if !errors.Is(err, ErrAmountMismatch) || KindOf(err) != KindIntegrity {
		t.Fatalf("expected integrity violation, got %v", err)
	}
	stored, _ := f.store.Claims.GetByID(ctx, claim.ID)
	if stored.Status != models.ClaimStatusPending || !stored.FinalAmount.Equal(decimal.NewFromInt(9999)) {
		t.Fatal("corrupt claim must be left untouched")
	}
}

func TestConcurrentDecisionsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, "")

	const approvers = 8
	errs := make([]error, approvers)
	var wg sync.WaitGroup
	for i := range approvers {
		decision := models.DecisionApprove
		if i%2 == 0 {
			decision = models.DecisionReject
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.claims.DecideClaim(ctx, claim.ID, decision, models.RoleHR)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case KindOf(err) != KindConflict:
			t.Errorf("losing decision must be a conflict, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d decisions succeeded, want 1", succeeded)
	}
}

func TestListClaimsByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	f.submit(t, lecturer, "1", "100", march, "")
	f.submit(t, lecturer, "2", "100", march, models.DecisionApprove)
	f.submit(t, lecturer, "3", "100", march, models.DecisionReject)

	am, err := f.claims.ListClaims(ctx, models.RoleAcademicManager, "", "")
	if err != nil || len(am) != 1 || am[0].Status != models.ClaimStatusPending {
		t.Fatalf("academic manager sees %d claims (err %v), want only the pending one", len(am), err)
	}
	if _, err := f.claims.ListClaims(ctx, models.RoleAcademicManager, models.ClaimStatusApproved, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("academic manager viewing approved: got %v", err)
	}

	hr, err := f.claims.ListClaims(ctx, models.RoleHR, "", "")
	if err != nil || len(hr) != 3 {
		t.Fatalf("hr sees %d claims (err %v), want 3", len(hr), err)
	}
	other, _ := f.claims.ListClaims(ctx, models.RoleHR, "", "Law")
	if len(other) != 0 {
		t.Errorf("faculty filter ignored: %d claims", len(other))
	}
	if _, err := f.claims.ListClaims(ctx, models.RoleHR, "Archived", ""); KindOf(err) != KindValidation {
		t.Errorf("unknown status: got %v", err)
	}

	mine, _ := f.claims.ListLecturerClaims(ctx, lecturer.ID)
	if len(mine) != 3 {
		t.Errorf("lecturer sees %d own claims, want 3", len(mine))
	}
}

func TestGetSupportingDocumentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.lecturer(t, "PROG6212", "")
	other := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, owner, "1", "100", march, "")

	got, err := f.claims.GetSupportingDocument(ctx, claim.ID, Actor{UserID: owner.ID, Role: models.RoleLecturer})
	if err != nil || len(got.Document) == 0 {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := f.claims.GetSupportingDocument(ctx, claim.ID, Actor{UserID: other.ID, Role: models.RoleLecturer}); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign lecturer read: got %v", err)
	}
	if _, err := f.claims.GetSupportingDocument(ctx, claim.ID, Actor{UserID: uuid.New(), Role: models.RoleAcademicManager}); err != nil {
		t.Errorf("manager read: %v", err)
	}
}
