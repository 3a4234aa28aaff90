// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtStatus represents the repayment status of a debt.
type DebtStatus string

const (
	DebtStatusActive  DebtStatus = "active"
	DebtStatusPaidOff DebtStatus = "paid_off"
)

// DebtPriority represents how urgently a debt should be repaid.
type DebtPriority string

const (
	DebtPriorityHigh   DebtPriority = "high"
	DebtPriorityMedium DebtPriority = "medium"
	DebtPriorityLow    DebtPriority = "low"
)

// IsValid reports whether the priority is one of the known values.
func (p DebtPriority) IsValid() bool {
	switch p {
	case DebtPriorityHigh, DebtPriorityMedium, DebtPriorityLow:
		return true
	}
	return false
}

// Debt represents a tracked debt in the Finance Tracker system.
// CurrentBalance is a cache of the canonical balance derived from payment
// history and may drift; it is never authoritative.
type Debt struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Creditor       string // Free text, used to bootstrap matching rules
	OriginalAmount decimal.Decimal
	CurrentBalance decimal.Decimal
	InterestRate   decimal.Decimal
	MinimumPayment decimal.Decimal
	Status         DebtStatus
	Priority       DebtPriority
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewDebt creates a new active Debt whose stored balance starts at the original amount.
func NewDebt(
	userID uuid.UUID,
	name string,
	creditor string,
	originalAmount decimal.Decimal,
	interestRate decimal.Decimal,
	minimumPayment decimal.Decimal,
	priority DebtPriority,
) *Debt {
	now := time.Now().UTC()

	return &Debt{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		Creditor:       creditor,
		OriginalAmount: originalAmount,
		CurrentBalance: originalAmount,
		InterestRate:   interestRate,
		MinimumPayment: minimumPayment,
		Status:         DebtStatusActive,
		Priority:       priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsActive reports whether the debt is still being repaid.
func (d *Debt) IsActive() bool {
	return d.Status == DebtStatusActive
}

// StatusForBalance returns the status a debt must have for the given balance.
func StatusForBalance(balance decimal.Decimal) DebtStatus {
	if balance.LessThanOrEqual(decimal.Zero) {
		return DebtStatusPaidOff
	}
	return DebtStatusActive
}

// DebtPayment is a payment entered by the user without transaction provenance.
// Principal and interest are tracked separately; only principal reduces the balance.
type DebtPayment struct {
	ID          uuid.UUID
	DebtID      uuid.UUID
	Amount      decimal.Decimal
	Principal   decimal.Decimal
	Interest    decimal.Decimal
	PaymentDate time.Time
	Notes       string
	CreatedAt   time.Time
}

// NewDebtPayment creates a new manual DebtPayment.
func NewDebtPayment(debtID uuid.UUID, principal, interest decimal.Decimal, paymentDate time.Time, notes string) *DebtPayment {
	return &DebtPayment{
		ID:          uuid.New(),
		DebtID:      debtID,
		Amount:      principal.Add(interest),
		Principal:   principal,
		Interest:    interest,
		PaymentDate: paymentDate,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}
}
