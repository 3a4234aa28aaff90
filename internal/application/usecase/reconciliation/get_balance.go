package reconciliation

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/entity"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

// GetBalanceOutput represents the canonical balance of a debt.
type GetBalanceOutput struct {
	Debt     *entity.Debt
	Balance  balance.BalanceInfo
	HasDrift bool // The stored balance disagrees with the canonical one
}

// GetBalanceUseCase handles computing a debt's canonical balance.
// It never writes the debt; drift is only reported.
type GetBalanceUseCase struct {
	debtRepo adapter.DebtRepository
	loader   *ledger.Loader
	config   valueobject.MatchingConfig
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase instance.
func NewGetBalanceUseCase(debtRepo adapter.DebtRepository, loader *ledger.Loader, config valueobject.MatchingConfig) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		debtRepo: debtRepo,
		loader:   loader,
		config:   config,
	}
}

// Execute computes the canonical balance of a debt.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, input DebtBalanceInput) (*GetBalanceOutput, error) {
	debt, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID)
	if err != nil {
		return nil, err
	}

	current, err := uc.loader.Load(ctx, []uuid.UUID{debt.ID})
	if err != nil {
		return nil, err
	}

	info := balance.CalculateBalanceInfo(debt, current)
	drift := balance.NeedsSync(debt, info, uc.config)
	if drift {
		slog.Warn("Debt balance drift detected",
			"debt_id", debt.ID,
			"stored_balance", debt.CurrentBalance.String(),
			"canonical_balance", info.CurrentBalance.String(),
		)
	}

	return &GetBalanceOutput{Debt: debt, Balance: info, HasDrift: drift}, nil
}
