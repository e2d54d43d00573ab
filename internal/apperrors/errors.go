package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Accounting invariant violations. Never retried; the caller surfaces the
// invariant name as a 4xx.
var (
	// ErrUnbalancedEntry indicates the debit and credit sums of a journal differ.
	ErrUnbalancedEntry = errors.New("unbalanced entry: debits do not equal credits")
	// ErrTooFewLines indicates a journal with fewer than two lines.
	ErrTooFewLines = errors.New("journal must have at least two lines")
	// ErrNonPositiveAmount indicates a zero or negative business amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrDebitCreditOverlap indicates a line with both sides set, or neither.
	ErrDebitCreditOverlap = errors.New("journal line must have exactly one of debit or credit")
)

// ErrPeriodClosed indicates an attempt to post into a CLOSED accounting period.
var ErrPeriodClosed = errors.New("accounting period is closed")

// ErrIllegalTransition indicates a state-machine violation: posting a
// non-DRAFT journal, reversing a non-POSTED one, closing a period with
// incomplete checklist items, or reopening a period that is not closed.
var ErrIllegalTransition = errors.New("illegal state transition")

// ErrCodeConflict indicates a journal code collision that survived the
// in-transaction retry. Transient.
var ErrCodeConflict = errors.New("journal code conflict")

// ErrTenantMissing indicates a unit of work that reached the storage layer
// without a bound tenant. Programmer error, aborts the request.
var ErrTenantMissing = errors.New("tenant context not set")

// AppError wraps an underlying error with an HTTP-ish code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}
