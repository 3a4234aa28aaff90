package reconciliation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/entity"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

// SyncBalancesInput represents the input for resynchronizing stored balances.
type SyncBalancesInput struct {
	UserID uuid.UUID
}

// SyncBalancesOutput counts the debts that were repaired, left alone, or could not be written.
type SyncBalancesOutput struct {
	Updated   int
	Unchanged int
	Failed    int
}

// SyncBalancesUseCase rewrites drifted debt records to their canonical balance and status.
// This and payment events are the only writers of the stored balance.
type SyncBalancesUseCase struct {
	debtRepo adapter.DebtRepository
	loader   *ledger.Loader
	config   valueobject.MatchingConfig
	metrics  adapter.ScanMetrics
}

// NewSyncBalancesUseCase creates a new SyncBalancesUseCase instance.
func NewSyncBalancesUseCase(
	debtRepo adapter.DebtRepository,
	loader *ledger.Loader,
	config valueobject.MatchingConfig,
	metrics adapter.ScanMetrics,
) *SyncBalancesUseCase {
	return &SyncBalancesUseCase{
		debtRepo: debtRepo,
		loader:   loader,
		config:   config,
		metrics:  metrics,
	}
}

// Execute repairs every drifted debt of the user. A debt whose write fails is
// logged and counted; the rest are still repaired. Running it twice in a row
// updates nothing the second time.
func (uc *SyncBalancesUseCase) Execute(ctx context.Context, input SyncBalancesInput) (*SyncBalancesOutput, error) {
	debts, err := uc.debtRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}

	current, err := uc.loader.Load(ctx, ledger.DebtIDs(debts))
	if err != nil {
		return nil, err
	}

	output := &SyncBalancesOutput{}
	for _, debt := range debts {
		info := balance.CalculateBalanceInfo(debt, current)
		if !balance.NeedsSync(debt, info, uc.config) {
			output.Unchanged++
			continue
		}

		status := entity.StatusForBalance(info.CurrentBalance)
		if err := uc.debtRepo.UpdateBalance(ctx, debt.ID, info.CurrentBalance, status); err != nil {
			slog.Error("Failed to sync debt balance",
				"debt_id", debt.ID,
				"canonical_balance", info.CurrentBalance.String(),
				"error", err,
			)
			output.Failed++
			continue
		}

		slog.Info("Debt balance synced",
			"debt_id", debt.ID,
			"stored_balance", debt.CurrentBalance.String(),
			"canonical_balance", info.CurrentBalance.String(),
			"status", status,
		)
		output.Updated++
	}

	uc.metrics.ObserveBalanceSync(output.Updated, output.Unchanged, output.Failed)
	return output, nil
}
