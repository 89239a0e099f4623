package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can tell retryable from
// non-retryable outcomes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindTransient
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindTransient:
		return "transient"
	case KindIntegrity:
		return "integrity"
	}
	return "internal"
}

// Error is a classified failure. Two Errors match under errors.Is when their
// codes are equal, so the sentinels below can be compared against wrapped
// instances carrying a cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// with returns a copy of e carrying cause.
func (e *Error) with(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

var (
	ErrClaimNotFound    = newError(KindNotFound, "claim_not_found", "claim not found")
	ErrInvoiceNotFound  = newError(KindNotFound, "invoice_not_found", "invoice not found")
	ErrReportNotFound   = newError(KindNotFound, "report_not_found", "report not found")
	ErrLecturerNotFound = newError(KindNotFound, "lecturer_not_found", "lecturer not found")

	ErrClaimAlreadyApproved          = newError(KindConflict, "claim_already_approved", "claim has already been approved")
	ErrClaimAlreadyRejected          = newError(KindConflict, "claim_already_rejected", "claim has already been rejected")
	ErrApprovedClaimCannotBeRejected = newError(KindConflict, "approved_claim_cannot_be_rejected", "an approved claim cannot be rejected")
	ErrRejectedClaimCannotBeApproved = newError(KindConflict, "rejected_claim_cannot_be_approved", "a rejected claim cannot be approved")
	ErrConcurrentUpdate              = newError(KindConflict, "concurrent_update", "claim was modified by another request, reload and try again")
	ErrClaimNotApproved              = newError(KindConflict, "claim_not_approved", "invoices can only be issued for approved claims")
	ErrInvoiceAlreadyExists          = newError(KindConflict, "invoice_already_exists", "an invoice has already been issued for this claim")
	ErrUnknownDecision               = newError(KindValidation, "unknown_decision", "decision must be approve or reject")

	ErrForbidden           = newError(KindForbidden, "forbidden", "role is not permitted to perform this action")
	ErrLecturerNotApproved = newError(KindForbidden, "lecturer_not_approved", "lecturer account has not been approved")

	ErrAmountMismatch = newError(KindIntegrity, "amount_mismatch", "stored final amount does not equal hours worked times hourly rate")
	ErrUnknownStatus  = newError(KindIntegrity, "unknown_status", "stored claim has an unknown status")

	ErrDocumentTemplate = newError(KindInternal, "document_template_failed", "document could not be laid out")

	ErrStoreUnavailable = newError(KindTransient, "store_unavailable", "storage is temporarily unavailable, try again later")
	ErrRenderFailed     = newError(KindTransient, "render_failed", "document generation failed, try again later")
)

// FieldError is one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors carries every violation found at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// KindOf classifies any error returned from this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return KindValidation
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	return KindInternal
}

// transient wraps an I/O failure of the given operation.
func transient(sentinel *Error, op string, cause error) error {
	return sentinel.with(fmt.Errorf("%s: %w", op, cause))
}
