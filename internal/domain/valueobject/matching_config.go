// Package valueobject contains domain value objects for the Finance Tracker system.
package valueobject

import "github.com/shopspring/decimal"

const (
	// DefaultAutoConfirmThreshold is the confidence at or above which an automatic match needs no review.
	DefaultAutoConfirmThreshold = 90
	// DefaultRuleThreshold is the threshold given to bootstrapped creditor rules.
	DefaultRuleThreshold = 85
)

// MatchingConfig contains the configuration for debt payment matching.
type MatchingConfig struct {
	AutoConfirmThreshold int // 90
	DefaultRuleThreshold int // 85

	// Stored balances within this distance of the canonical balance are not drift
	DriftTolerance decimal.Decimal // 0.01
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		AutoConfirmThreshold: DefaultAutoConfirmThreshold,
		DefaultRuleThreshold: DefaultRuleThreshold,
		DriftTolerance:       decimal.NewFromFloat(0.01),
	}
}

// ShouldAutoConfirm reports whether a candidate with the given confidence is confirmed without review.
func (c MatchingConfig) ShouldAutoConfirm(confidence int) bool {
	return confidence >= c.AutoConfirmThreshold
}

// HasDrift reports whether a stored balance differs from the canonical one beyond tolerance.
func (c MatchingConfig) HasDrift(stored, canonical decimal.Decimal) bool {
	return stored.Sub(canonical).Abs().GreaterThan(c.DriftTolerance)
}
