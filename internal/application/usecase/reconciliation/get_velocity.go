package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/balance"
)

// GetVelocityUseCase handles estimating how fast a debt is being repaid.
type GetVelocityUseCase struct {
	debtRepo adapter.DebtRepository
	loader   *ledger.Loader
}

// NewGetVelocityUseCase creates a new GetVelocityUseCase instance.
func NewGetVelocityUseCase(debtRepo adapter.DebtRepository, loader *ledger.Loader) *GetVelocityUseCase {
	return &GetVelocityUseCase{
		debtRepo: debtRepo,
		loader:   loader,
	}
}

// Execute computes the payment velocity of a debt.
func (uc *GetVelocityUseCase) Execute(ctx context.Context, input DebtBalanceInput) (*balance.PaymentVelocity, error) {
	debt, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID)
	if err != nil {
		return nil, err
	}

	current, err := uc.loader.Load(ctx, []uuid.UUID{debt.ID})
	if err != nil {
		return nil, err
	}

	velocity := balance.CalculatePaymentVelocity(debt, current)
	return &velocity, nil
}
