package debtmatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

// PaymentApplier turns confirmed matches into payment history and balance updates.
type PaymentApplier struct {
	debtRepo        adapter.DebtRepository
	transactionRepo adapter.TransactionRepository
	historyRepo     adapter.PaymentHistoryRepository
	loader          *ledger.Loader
}

// NewPaymentApplier creates a new PaymentApplier instance.
func NewPaymentApplier(
	debtRepo adapter.DebtRepository,
	transactionRepo adapter.TransactionRepository,
	historyRepo adapter.PaymentHistoryRepository,
	loader *ledger.Loader,
) *PaymentApplier {
	return &PaymentApplier{
		debtRepo:        debtRepo,
		transactionRepo: transactionRepo,
		historyRepo:     historyRepo,
		loader:          loader,
	}
}

// Apply writes the payment history entry of a confirmed match and updates the
// stored debt balance. A match whose entry already exists is left alone, so Apply
// may run any number of times for the same match. It returns nil when nothing was written.
func (a *PaymentApplier) Apply(ctx context.Context, match *entity.DebtTransactionMatch) (*entity.DebtPaymentHistory, error) {
	if !match.IsConfirmed() {
		return nil, nil
	}

	exists, err := a.historyRepo.Exists(ctx, match.DebtID, match.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payment history: %w", err)
	}
	if exists {
		return nil, nil
	}

	debt, err := a.debtRepo.FindByID(ctx, match.DebtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt: %w", err)
	}

	tx, err := a.transactionRepo.FindByID(ctx, match.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewMatchError(
				domainerror.ErrCodeMatchTransactionGone,
				"matched transaction no longer exists",
				err,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	current, err := a.loader.Load(ctx, []uuid.UUID{debt.ID})
	if err != nil {
		return nil, err
	}

	entry := balance.BuildPaymentEntry(match, debt, tx, current.Without(debt.ID, tx.ID))

	if err := a.historyRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, domainerror.ErrDuplicatePaymentEntry) {
			// Another pass applied the same match first.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create payment history: %w", err)
	}

	status := entity.StatusForBalance(entry.BalanceAfter)
	if err := a.debtRepo.UpdateBalance(ctx, debt.ID, entry.BalanceAfter, status); err != nil {
		return entry, fmt.Errorf("failed to update debt balance: %w", err)
	}

	slog.Info("Debt payment applied",
		"debt_id", debt.ID,
		"transaction_id", tx.ID,
		"match_id", match.ID,
		"amount", entry.Amount.String(),
		"balance_after", entry.BalanceAfter.String(),
		"status", status,
	)

	return entry, nil
}
