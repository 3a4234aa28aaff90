// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Debt domain errors.
var (
	// ErrDebtNotFound is returned when a debt is not found in the system.
	ErrDebtNotFound = errors.New("debt not found")

	// ErrNotAuthorizedToAccessDebt is returned when the debt belongs to another user.
	ErrNotAuthorizedToAccessDebt = errors.New("not authorized to access debt")

	// ErrInvalidDebtName is returned when the debt name is empty or too long.
	ErrInvalidDebtName = errors.New("invalid debt name")

	// ErrInvalidDebtAmount is returned when the original amount is not positive.
	ErrInvalidDebtAmount = errors.New("invalid debt amount")

	// ErrInvalidDebtPriority is returned when the priority is not high, medium or low.
	ErrInvalidDebtPriority = errors.New("invalid debt priority")

	// ErrInvalidPaymentAmount is returned when a manual payment has no positive principal.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrDuplicatePaymentEntry is returned when a payment history entry already exists for a debt and transaction.
	ErrDuplicatePaymentEntry = errors.New("payment history entry already exists")
)

// DebtErrorCode defines error codes for debt errors.
// Format: DBT-XXYYYY where XX is category and YYYY is specific error.
type DebtErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidDebtName     DebtErrorCode = "DBT-010001"
	ErrCodeInvalidDebtAmount   DebtErrorCode = "DBT-010002"
	ErrCodeInvalidDebtPriority DebtErrorCode = "DBT-010003"
	ErrCodeInvalidPayment      DebtErrorCode = "DBT-010004"
	ErrCodeMissingDebtFields   DebtErrorCode = "DBT-010005"

	// Lookup errors (02XXXX)
	ErrCodeDebtNotFound      DebtErrorCode = "DBT-020001"
	ErrCodeDebtNotAuthorized DebtErrorCode = "DBT-020002"
)

// DebtError represents a debt error with code and message.
type DebtError struct {
	Code    DebtErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DebtError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DebtError) Unwrap() error {
	return e.Err
}

// NewDebtError creates a new DebtError with the given code and message.
func NewDebtError(code DebtErrorCode, message string, err error) *DebtError {
	return &DebtError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
