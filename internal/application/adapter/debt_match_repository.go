// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// DebtMatchRepository defines the interface for debt/transaction match persistence.
// Matches are never deleted.
type DebtMatchRepository interface {
	// Create inserts a match. It returns ErrDuplicateMatch when a match for the
	// same transaction and debt already exists.
	Create(ctx context.Context, match *entity.DebtTransactionMatch) error

	// FindByID retrieves a match by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DebtTransactionMatch, error)

	// FindByTransactionAndDebt retrieves the match of a transaction and debt in any status.
	// It returns ErrMatchNotFound when there is none.
	FindByTransactionAndDebt(ctx context.Context, transactionID, debtID uuid.UUID) (*entity.DebtTransactionMatch, error)

	// FindByDebts retrieves every match of the given debts.
	FindByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.DebtTransactionMatch, error)

	// FindPendingByDebt retrieves the matches of a debt awaiting review, newest first.
	FindPendingByDebt(ctx context.Context, debtID uuid.UUID) ([]*entity.DebtTransactionMatch, error)

	// TransitionFromPending moves a pending match to status and stamps reviewedAt.
	// It reports false when the match was no longer pending.
	TransitionFromPending(ctx context.Context, id uuid.UUID, status entity.MatchStatus, reviewedAt time.Time) (bool, error)
}
