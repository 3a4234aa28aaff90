// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Debt match domain errors.
var (
	// ErrMatchNotFound is returned when a debt/transaction match is not found.
	ErrMatchNotFound = errors.New("match not found")

	// ErrDuplicateMatch is returned when a match already exists for a transaction and debt.
	ErrDuplicateMatch = errors.New("match already exists for transaction and debt")

	// ErrTransactionNotOutgoing is returned when a manual match targets an incoming transaction.
	ErrTransactionNotOutgoing = errors.New("only outgoing transactions can pay a debt")

	// ErrInvalidScanWindow is returned when a scan asks for both or neither of limit and days.
	ErrInvalidScanWindow = errors.New("invalid scan window")
)

// MatchErrorCode defines error codes for debt match errors.
// Format: MTC-XXYYYY where XX is category and YYYY is specific error.
type MatchErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeTransactionNotOutgoing MatchErrorCode = "MTC-010001"
	ErrCodeInvalidScanWindow      MatchErrorCode = "MTC-010002"
	ErrCodeMissingMatchFields     MatchErrorCode = "MTC-010003"

	// Lookup errors (02XXXX)
	ErrCodeMatchNotFound        MatchErrorCode = "MTC-020001"
	ErrCodeMatchTransactionGone MatchErrorCode = "MTC-020002"

	// Conflict errors (03XXXX)
	ErrCodeDuplicateMatch MatchErrorCode = "MTC-030001"
)

// MatchError represents a debt match error with code and message.
type MatchError struct {
	Code    MatchErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MatchError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MatchError) Unwrap() error {
	return e.Err
}

// NewMatchError creates a new MatchError with the given code and message.
func NewMatchError(code MatchErrorCode, message string, err error) *MatchError {
	return &MatchError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
