// Package ledger loads the payment records debt balances are computed from.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// Loader assembles a balance.Ledger for a set of debts.
type Loader struct {
	matchRepo       adapter.DebtMatchRepository
	transactionRepo adapter.TransactionRepository
	historyRepo     adapter.PaymentHistoryRepository
	paymentRepo     adapter.DebtPaymentRepository
}

// NewLoader creates a new Loader instance.
func NewLoader(
	matchRepo adapter.DebtMatchRepository,
	transactionRepo adapter.TransactionRepository,
	historyRepo adapter.PaymentHistoryRepository,
	paymentRepo adapter.DebtPaymentRepository,
) *Loader {
	return &Loader{
		matchRepo:       matchRepo,
		transactionRepo: transactionRepo,
		historyRepo:     historyRepo,
		paymentRepo:     paymentRepo,
	}
}

// Load reads every match, history entry and manual payment of the given debts,
// plus the transactions behind confirmed matches and history entries.
func (l *Loader) Load(ctx context.Context, debtIDs []uuid.UUID) (balance.Ledger, error) {
	out := balance.Ledger{Transactions: map[uuid.UUID]*entity.Transaction{}}
	if len(debtIDs) == 0 {
		return out, nil
	}

	matches, err := l.matchRepo.FindByDebts(ctx, debtIDs)
	if err != nil {
		return out, fmt.Errorf("failed to load matches: %w", err)
	}
	history, err := l.historyRepo.FindByDebts(ctx, debtIDs)
	if err != nil {
		return out, fmt.Errorf("failed to load payment history: %w", err)
	}
	payments, err := l.paymentRepo.FindByDebts(ctx, debtIDs)
	if err != nil {
		return out, fmt.Errorf("failed to load manual payments: %w", err)
	}

	seen := make(map[uuid.UUID]struct{})
	var txIDs []uuid.UUID
	addID := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		txIDs = append(txIDs, id)
	}
	for _, m := range matches {
		if m.IsConfirmed() {
			addID(m.TransactionID)
		}
	}
	for _, h := range history {
		addID(h.TransactionID)
	}

	if len(txIDs) > 0 {
		transactions, err := l.transactionRepo.FindByIDs(ctx, txIDs)
		if err != nil {
			return out, fmt.Errorf("failed to load matched transactions: %w", err)
		}
		for _, tx := range transactions {
			out.Transactions[tx.ID] = tx
		}
	}

	out.Matches = matches
	out.History = history
	out.ManualPayments = payments
	return out, nil
}

// DebtIDs returns the IDs of the given debts.
func DebtIDs(debts []*entity.Debt) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(debts))
	for _, d := range debts {
		ids = append(ids, d.ID)
	}
	return ids
}
