// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Matching rule domain errors.
var (
	// ErrMatchingRuleNotFound is returned when a matching rule is not found.
	ErrMatchingRuleNotFound = errors.New("matching rule not found")

	// ErrInvalidRuleType is returned when the rule type is not exact, fuzzy, pattern or account.
	ErrInvalidRuleType = errors.New("invalid rule type")

	// ErrInvalidRuleField is returned when the rule field is not a known transaction field.
	ErrInvalidRuleField = errors.New("invalid rule field")

	// ErrEmptyRuleValue is returned when the rule value is blank.
	ErrEmptyRuleValue = errors.New("rule value cannot be empty")

	// ErrInvalidRulePattern is returned when a pattern rule does not compile.
	ErrInvalidRulePattern = errors.New("invalid regex pattern")

	// ErrInvalidConfidenceThreshold is returned when the threshold is outside 0-100.
	ErrInvalidConfidenceThreshold = errors.New("confidence threshold must be between 0 and 100")

	// ErrAccountRuleField is returned when an account rule targets a field other than account_number.
	ErrAccountRuleField = errors.New("account rules must use the account_number field")
)

// MatchingRuleErrorCode defines error codes for matching rule errors.
// Format: RUL-XXYYYY where XX is category and YYYY is specific error.
type MatchingRuleErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidRuleType    MatchingRuleErrorCode = "RUL-010001"
	ErrCodeInvalidRuleField   MatchingRuleErrorCode = "RUL-010002"
	ErrCodeEmptyRuleValue     MatchingRuleErrorCode = "RUL-010003"
	ErrCodeInvalidRulePattern MatchingRuleErrorCode = "RUL-010004"
	ErrCodeInvalidThreshold   MatchingRuleErrorCode = "RUL-010005"
	ErrCodeAccountRuleField   MatchingRuleErrorCode = "RUL-010006"

	// Lookup errors (02XXXX)
	ErrCodeMatchingRuleNotFound   MatchingRuleErrorCode = "RUL-020001"
	ErrCodeMatchingRuleNotAllowed MatchingRuleErrorCode = "RUL-020002"
)

// MatchingRuleError represents a matching rule error with code and message.
type MatchingRuleError struct {
	Code    MatchingRuleErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MatchingRuleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MatchingRuleError) Unwrap() error {
	return e.Err
}

// NewMatchingRuleError creates a new MatchingRuleError with the given code and message.
func NewMatchingRuleError(code MatchingRuleErrorCode, message string, err error) *MatchingRuleError {
	return &MatchingRuleError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
