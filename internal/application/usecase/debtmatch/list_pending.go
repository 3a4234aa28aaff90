package debtmatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// ListPendingMatchesInput represents the input for listing matches awaiting review.
type ListPendingMatchesInput struct {
	UserID uuid.UUID
	DebtID uuid.UUID
}

// PendingMatch pairs a pending match with its transaction.
type PendingMatch struct {
	Match       *entity.DebtTransactionMatch
	Transaction *entity.Transaction // Nil when the transaction was removed
}

// ListPendingMatchesOutput represents the output of listing pending matches.
type ListPendingMatchesOutput struct {
	Matches []PendingMatch
}

// ListPendingMatchesUseCase handles listing a debt's pending matches.
type ListPendingMatchesUseCase struct {
	matchRepo       adapter.DebtMatchRepository
	debtRepo        adapter.DebtRepository
	transactionRepo adapter.TransactionRepository
}

// NewListPendingMatchesUseCase creates a new ListPendingMatchesUseCase instance.
func NewListPendingMatchesUseCase(
	matchRepo adapter.DebtMatchRepository,
	debtRepo adapter.DebtRepository,
	transactionRepo adapter.TransactionRepository,
) *ListPendingMatchesUseCase {
	return &ListPendingMatchesUseCase{
		matchRepo:       matchRepo,
		debtRepo:        debtRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute returns the pending matches of a debt with their transactions.
func (uc *ListPendingMatchesUseCase) Execute(ctx context.Context, input ListPendingMatchesInput) (*ListPendingMatchesOutput, error) {
	if _, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID); err != nil {
		return nil, err
	}

	matches, err := uc.matchRepo.FindPendingByDebt(ctx, input.DebtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending matches: %w", err)
	}

	txIDs := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		txIDs = append(txIDs, m.TransactionID)
	}

	byID := make(map[uuid.UUID]*entity.Transaction, len(txIDs))
	if len(txIDs) > 0 {
		transactions, err := uc.transactionRepo.FindByIDs(ctx, txIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load pending transactions: %w", err)
		}
		for _, tx := range transactions {
			byID[tx.ID] = tx
		}
	}

	out := &ListPendingMatchesOutput{Matches: make([]PendingMatch, 0, len(matches))}
	for _, m := range matches {
		out.Matches = append(out.Matches, PendingMatch{Match: m, Transaction: byID[m.TransactionID]})
	}
	return out, nil
}
