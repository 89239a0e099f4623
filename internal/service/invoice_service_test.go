package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"cmcs/internal/models"
	"cmcs/internal/render"

	"github.com/google/uuid"
)

func TestIssueInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)

	invoice, err := f.invoices.IssueInvoice(ctx, claim.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if invoice.ClaimID != claim.ID || invoice.DocumentType != models.MediaTypePDF {
		t.Errorf("unexpected invoice %+v", invoice)
	}
	if invoice.DocumentName != "Invoice_"+claim.ID.String()+".pdf" {
		t.Errorf("document name = %q", invoice.DocumentName)
	}
	if invoice.InvoiceNumber < invoiceNumberMin || invoice.InvoiceNumber > invoiceNumberMax {
		t.Errorf("invoice number %d out of range", invoice.InvoiceNumber)
	}

	if len(f.renderer.invoices) != 1 {
		t.Fatalf("renderer called %d times", len(f.renderer.invoices))
	}
	doc := f.renderer.invoices[0]
	if doc.LecturerAddress.Name != "Thandi Mokoena" || doc.Module != "PROG6212" || doc.BankName != "FNB" {
		t.Errorf("lecturer details missing from invoice document: %+v", doc)
	}
	if doc.IssuerAddress.Name != "Contract Monthly Claims System" {
		t.Errorf("issuer = %+v", doc.IssuerAddress)
	}
	if !strings.Contains(doc.Comments, claim.ID.String()) || !strings.Contains(doc.Comments, "support@cmcs.edu.za") {
		t.Errorf("comment = %q", doc.Comments)
	}
	if !doc.IssueDate.Equal(fixedNow) {
		t.Errorf("issue date = %v", doc.IssueDate)
	}
}

func TestIssueInvoiceTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)

	if _, err := f.invoices.IssueInvoice(ctx, claim.ID); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	_, err := f.invoices.IssueInvoice(ctx, claim.ID)
	if !errors.Is(err, ErrInvoiceAlreadyExists) || KindOf(err) != KindConflict {
		t.Fatalf("second issue: got %v", err)
	}
	if len(f.renderer.invoices) != 1 {
		t.Errorf("second issue must not re-render")
	}
	invoices, _ := f.store.Invoices.List(ctx)
	if len(invoices) != 1 {
		t.Errorf("%d invoices stored, want 1", len(invoices))
	}
}

func TestIssueInvoiceConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.invoices.IssueInvoice(ctx, claim.ID)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrInvoiceAlreadyExists) {
			t.Errorf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d issuances succeeded, want 1", succeeded)
	}
}

func TestIssueInvoicePreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	pending := f.submit(t, lecturer, "10", "50", march, "")
	rejected := f.submit(t, lecturer, "10", "50", march, models.DecisionReject)

	if _, err := f.invoices.IssueInvoice(ctx, uuid.New()); !errors.Is(err, ErrClaimNotFound) {
		t.Errorf("missing claim: got %v", err)
	}
	for _, c := range []*models.Claim{pending, rejected} {
		if _, err := f.invoices.IssueInvoice(ctx, c.ID); !errors.Is(err, ErrClaimNotApproved) {
			t.Errorf("%s claim: got %v", c.Status, err)
		}
	}
	if len(f.renderer.invoices) != 0 {
		t.Error("renderer must not run when preconditions fail")
	}
}

func TestIssueInvoiceRenderFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)

	f.renderer.err = errors.New("chromium crashed")
	_, err := f.invoices.IssueInvoice(ctx, claim.ID)
	if !errors.Is(err, ErrRenderFailed) || KindOf(err) != KindTransient {
		t.Fatalf("expected transient render failure, got %v", err)
	}
	if _, err := f.store.Invoices.GetByClaimID(ctx, claim.ID); err == nil {
		t.Fatal("invoice stored despite render failure")
	}

	f.renderer.err = nil
	if _, err := f.invoices.IssueInvoice(ctx, claim.ID); err != nil {
		t.Fatalf("retry after transient failure: %v", err)
	}
}

func TestIssueInvoiceTimeout(t *testing.T) {
	f := newFixture(t)
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)

	f.invoices.timeout = 20 * time.Millisecond
	f.renderer.block = true
	_, err := f.invoices.IssueInvoice(context.Background(), claim.ID)
	if KindOf(err) != KindTransient {
		t.Fatalf("expected transient failure on timeout, got %v", err)
	}
	if _, err := f.store.Invoices.GetByClaimID(context.Background(), claim.ID); err == nil {
		t.Fatal("invoice stored after timeout")
	}
}

func TestListInvoiceCandidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	invoiced := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)
	open := f.submit(t, lecturer, "5", "50", march, models.DecisionApprove)
	f.submit(t, lecturer, "5", "50", march, "")

	if _, err := f.invoices.IssueInvoice(ctx, invoiced.ID); err != nil {
		t.Fatalf("issue: %v", err)
	}

	candidates, err := f.invoices.ListInvoiceCandidates(ctx, "")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != open.ID {
		t.Fatalf("got %d candidates, want only %s", len(candidates), open.ID)
	}

	got, err := f.invoices.GetInvoiceByClaimID(ctx, invoiced.ID)
	if err != nil || got.ClaimID != invoiced.ID {
		t.Fatalf("get by claim: %v", err)
	}
	if _, err := f.invoices.GetInvoiceByClaimID(ctx, open.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("uninvoiced claim: got %v", err)
	}
}

func TestIssueInvoiceTemplateFailureIsNotRetryable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lecturer := f.lecturer(t, "PROG6212", "")
	claim := f.submit(t, lecturer, "10", "50", march, models.DecisionApprove)

	f.renderer.err = fmt.Errorf("%w: invoice: nil pointer", render.ErrTemplate)
	_, err := f.invoices.IssueInvoice(ctx, claim.ID)
	if !errors.Is(err, ErrDocumentTemplate) || KindOf(err) != KindInternal {
		t.Fatalf("expected internal template failure, got %v (kind %s)", err, KindOf(err))
	}
	if errors.Is(err, ErrRenderFailed) {
		t.Fatal("template failure must not be reported as retryable")
	}
	if _, err := f.store.Invoices.GetByClaimID(ctx, claim.ID); err == nil {
		t.Fatal("invoice stored despite template failure")
	}
}
