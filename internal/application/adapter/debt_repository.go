// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// DebtRepository defines the interface for debt persistence operations.
type DebtRepository interface {
	// Create creates a new debt in the database.
	Create(ctx context.Context, debt *entity.Debt) error

	// FindByID retrieves a debt by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Debt, error)

	// FindByUser retrieves all debts for a given user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Debt, error)

	// FindActiveByUser retrieves the debts of a user that are not paid off.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Debt, error)

	// UpdateBalance overwrites the stored balance and status of a debt.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status entity.DebtStatus) error
}

// DebtPaymentRepository defines the interface for manual debt payment persistence.
type DebtPaymentRepository interface {
	// Create records a manual payment.
	Create(ctx context.Context, payment *entity.DebtPayment) error

	// FindByDebts retrieves the manual payments of the given debts.
	FindByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.DebtPayment, error)
}

// PaymentHistoryRepository defines the interface for payment history persistence.
// Entries are append-only.
type PaymentHistoryRepository interface {
	// Create appends an entry. It returns ErrDuplicatePaymentEntry when the debt
	// already has an entry for the transaction.
	Create(ctx context.Context, entry *entity.DebtPaymentHistory) error

	// Exists checks whether the debt already has an entry for the transaction.
	Exists(ctx context.Context, debtID, transactionID uuid.UUID) (bool, error)

	// FindByDebt retrieves the entries of a debt ordered by payment date descending.
	FindByDebt(ctx context.Context, debtID uuid.UUID) ([]*entity.DebtPaymentHistory, error)

	// FindByDebts retrieves the entries of the given debts.
	FindByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.DebtPaymentHistory, error)
}
