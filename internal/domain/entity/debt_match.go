// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStatus represents the review state of a debt/transaction match.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusConfirmed MatchStatus = "confirmed"
	MatchStatusRejected  MatchStatus = "rejected"
)

// MatchType records how a match came to exist.
type MatchType string

const (
	MatchTypeAutomatic MatchType = "automatic"
	MatchTypeManual    MatchType = "manual"
)

// MatchCandidate is a proposed pairing produced by rule evaluation. It is not persisted.
type MatchCandidate struct {
	TransactionID uuid.UUID
	DebtID        uuid.UUID
	RuleID        uuid.UUID
	Confidence    int
	MatchedField  RuleField
	MatchedValue  string
}

// DebtTransactionMatch links a transaction to a debt it pays.
// At most one match exists per (TransactionID, DebtID). Matches are never deleted.
type DebtTransactionMatch struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	DebtID        uuid.UUID
	RuleID        *uuid.UUID // Nil for manual matches
	Confidence    int
	Status        MatchStatus
	Type          MatchType
	MatchedField  string
	MatchedValue  string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAutomaticMatch creates a match from a candidate. The match starts confirmed
// when autoConfirm is set, pending otherwise.
func NewAutomaticMatch(candidate MatchCandidate, autoConfirm bool) *DebtTransactionMatch {
	now := time.Now().UTC()
	ruleID := candidate.RuleID

	status := MatchStatusPending
	if autoConfirm {
		status = MatchStatusConfirmed
	}

	return &DebtTransactionMatch{
		ID:            uuid.New(),
		TransactionID: candidate.TransactionID,
		DebtID:        candidate.DebtID,
		RuleID:        &ruleID,
		Confidence:    ClampConfidence(candidate.Confidence),
		Status:        status,
		Type:          MatchTypeAutomatic,
		MatchedField:  string(candidate.MatchedField),
		MatchedValue:  candidate.MatchedValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewManualMatch creates a confirmed match entered by the user.
func NewManualMatch(transactionID, debtID uuid.UUID) *DebtTransactionMatch {
	now := time.Now().UTC()

	return &DebtTransactionMatch{
		ID:            uuid.New(),
		TransactionID: transactionID,
		DebtID:        debtID,
		Confidence:    100,
		Status:        MatchStatusConfirmed,
		Type:          MatchTypeManual,
		MatchedField:  "manual",
		ReviewedAt:    &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsPending reports whether the match still awaits review.
func (m *DebtTransactionMatch) IsPending() bool {
	return m.Status == MatchStatusPending
}

// IsConfirmed reports whether the match counts as a payment.
func (m *DebtTransactionMatch) IsConfirmed() bool {
	return m.Status == MatchStatusConfirmed
}

// DebtPaymentHistory is an append-only record of a payment derived from a confirmed match.
type DebtPaymentHistory struct {
	ID            uuid.UUID
	DebtID        uuid.UUID
	TransactionID uuid.UUID
	MatchID       *uuid.UUID
	PaymentDate   time.Time
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}
