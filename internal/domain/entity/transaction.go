// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents an imported bank transaction.
// The matching engine treats transactions as read-only records.
type Transaction struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	AccountID         string
	Amount            decimal.Decimal // Negative for outgoing, positive for incoming
	Description       string
	MerchantName      *string
	CounterpartyName  *string
	AccountNumber     *string
	TransactionDate   time.Time
	IncludeInSpending bool
	CreatedAt         time.Time
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	accountID string,
	amount decimal.Decimal,
	description string,
	transactionDate time.Time,
) *Transaction {
	return &Transaction{
		ID:                uuid.New(),
		UserID:            userID,
		AccountID:         accountID,
		Amount:            amount,
		Description:       description,
		TransactionDate:   transactionDate,
		IncludeInSpending: true,
		CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
}

// IsOutgoing reports whether money left the account.
func (t *Transaction) IsOutgoing() bool {
	return t.Amount.IsNegative()
}

// PaymentAmount returns the absolute amount of the transaction.
func (t *Transaction) PaymentAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// FieldValue returns the value of the given field, and false when the
// transaction has no value for it.
func (t *Transaction) FieldValue(field RuleField) (string, bool) {
	var value *string
	switch field {
	case RuleFieldMerchantName:
		value = t.MerchantName
	case RuleFieldCounterpartyName:
		value = t.CounterpartyName
	case RuleFieldDescription:
		value = &t.Description
	case RuleFieldAccountNumber:
		value = t.AccountNumber
	default:
		return "", false
	}

	if value == nil || strings.TrimSpace(*value) == "" {
		return "", false
	}
	return *value, true
}

// TransactionWindow bounds the transactions a scan pass considers.
// Exactly one of Limit or Since is used; Limit takes precedence when positive.
type TransactionWindow struct {
	Limit int
	Since *time.Time
}

// ScanCursor marks a position in import order. Rows after it have a later
// CreatedAt, or the same CreatedAt and a greater ID. A zero CreatedAt starts
// at the oldest import; a nil ID excludes every row sharing CreatedAt.
type ScanCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}
