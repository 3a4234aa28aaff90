// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RuleType identifies how a matching rule compares its value against a transaction field.
type RuleType string

const (
	RuleTypeExact   RuleType = "exact"
	RuleTypeFuzzy   RuleType = "fuzzy"
	RuleTypePattern RuleType = "pattern"
	RuleTypeAccount RuleType = "account"
)

// ParseRuleType converts a raw string into a RuleType.
func ParseRuleType(raw string) (RuleType, error) {
	switch t := RuleType(strings.ToLower(strings.TrimSpace(raw))); t {
	case RuleTypeExact, RuleTypeFuzzy, RuleTypePattern, RuleTypeAccount:
		return t, nil
	}
	return "", fmt.Errorf("unknown rule type %q", raw)
}

// RuleField identifies the transaction field a matching rule inspects.
type RuleField string

const (
	RuleFieldMerchantName     RuleField = "merchant_name"
	RuleFieldCounterpartyName RuleField = "counterparty_name"
	RuleFieldDescription      RuleField = "description"
	RuleFieldAccountNumber    RuleField = "account_number"
)

// ParseRuleField converts a raw string into a RuleField.
func ParseRuleField(raw string) (RuleField, error) {
	switch f := RuleField(strings.ToLower(strings.TrimSpace(raw))); f {
	case RuleFieldMerchantName, RuleFieldCounterpartyName, RuleFieldDescription, RuleFieldAccountNumber:
		return f, nil
	}
	return "", fmt.Errorf("unknown rule field %q", raw)
}

// MatchingRule decides whether a transaction is a payment toward the owning debt.
type MatchingRule struct {
	ID                  uuid.UUID
	DebtID              uuid.UUID
	Type                RuleType
	Field               RuleField
	Value               string // Literal or regex source depending on Type
	ConfidenceThreshold int    // 0-100
	Enabled             bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewMatchingRule creates a new enabled MatchingRule entity.
func NewMatchingRule(
	debtID uuid.UUID,
	ruleType RuleType,
	field RuleField,
	value string,
	confidenceThreshold int,
) *MatchingRule {
	now := time.Now().UTC()

	return &MatchingRule{
		ID:                  uuid.New(),
		DebtID:              debtID,
		Type:                ruleType,
		Field:               field,
		Value:               value,
		ConfidenceThreshold: ClampConfidence(confidenceThreshold),
		Enabled:             true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ClampConfidence bounds a confidence score to [0, 100].
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
