package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

// GetSummaryInput represents the input for the debt summary.
type GetSummaryInput struct {
	UserID uuid.UUID
}

// GetSummaryOutput represents the debt summary of a user.
type GetSummaryOutput struct {
	Summary      balance.DebtSummary
	DriftedDebts []uuid.UUID // Debts whose stored record disagrees with the canonical one
}

// GetSummaryUseCase handles aggregating canonical balances across a user's debts.
type GetSummaryUseCase struct {
	debtRepo adapter.DebtRepository
	loader   *ledger.Loader
	config   valueobject.MatchingConfig
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(debtRepo adapter.DebtRepository, loader *ledger.Loader, config valueobject.MatchingConfig) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		debtRepo: debtRepo,
		loader:   loader,
		config:   config,
	}
}

// Execute computes the summary.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	debts, err := uc.debtRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}

	current, err := uc.loader.Load(ctx, ledger.DebtIDs(debts))
	if err != nil {
		return nil, err
	}

	output := &GetSummaryOutput{
		Summary:      balance.CalculateDebtSummary(debts, current),
		DriftedDebts: []uuid.UUID{},
	}
	for i, debt := range debts {
		if balance.NeedsSync(debt, output.Summary.Debts[i], uc.config) {
			output.DriftedDebts = append(output.DriftedDebts, debt.ID)
		}
	}
	return output, nil
}
