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

// ErrConflict indicates the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("conflict")

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Money-movement errors.
var (
	// ErrTransferForbidden is matched by every TransferForbiddenError.
	ErrTransferForbidden = errors.New("transfer forbidden")
	// ErrInvalidAmount is returned when an amount is not a positive number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds is returned when the amount exceeds the sender balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStoreOperationFailed wraps any failure of the underlying store, including timeouts.
	// When it is returned nothing of the requested operation has been applied.
	ErrStoreOperationFailed = errors.New("store operation failed")
	// ErrAlreadySettled is returned when a settlement targets a transaction that is no longer pending.
	ErrAlreadySettled = errors.New("transaction already settled")
	// ErrIdempotencyMismatch is returned when an idempotency key is reused for a different request.
	ErrIdempotencyMismatch = errors.New("idempotency key reused with a different request")
	// ErrReferenceConflict is returned by stores when a generated reference already exists.
	ErrReferenceConflict = errors.New("transaction reference already exists")
	// ErrAccessDenied is matched by every AccessDeniedError.
	ErrAccessDenied = errors.New("account access disabled")
)

// TransferForbiddenError carries the reason a sender may not move money.
type TransferForbiddenError struct {
	Reason string
}

func (e *TransferForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTransferForbidden.Error(), e.Reason)
}

func (e *TransferForbiddenError) Is(target error) bool {
	return target == ErrTransferForbidden
}

// NewTransferForbidden returns a TransferForbiddenError for the given reason.
func NewTransferForbidden(reason string) error {
	return &TransferForbiddenError{Reason: reason}
}

// ForbiddenReason extracts the reason from a TransferForbiddenError in err's chain.
func ForbiddenReason(err error) (string, bool) {
	var tfe *TransferForbiddenError
	if errors.As(err, &tfe) {
		return tfe.Reason, true
	}
	return "", false
}

// AccessDeniedError is returned when a customer's session may no longer be used.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAccessDenied.Error(), e.Reason)
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

// NewAccessDenied returns an AccessDeniedError for the given reason.
func NewAccessDenied(reason string) error {
	return &AccessDeniedError{Reason: reason}
}

// AccessDeniedReason extracts the reason from an AccessDeniedError in err's chain.
func AccessDeniedReason(err error) (string, bool) {
	var ade *AccessDeniedError
	if errors.As(err, &ade) {
		return ade.Reason, true
	}
	return "", false
}

// AppError is an error with an associated HTTP-ish status code, used by repositories
// for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
