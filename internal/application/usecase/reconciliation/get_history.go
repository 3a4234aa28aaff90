package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// GetHistoryOutput represents the payment records of a debt.
type GetHistoryOutput struct {
	History        []*entity.DebtPaymentHistory
	ManualPayments []*entity.DebtPayment
}

// GetHistoryUseCase handles reading a debt's payment history.
type GetHistoryUseCase struct {
	debtRepo    adapter.DebtRepository
	historyRepo adapter.PaymentHistoryRepository
	paymentRepo adapter.DebtPaymentRepository
}

// NewGetHistoryUseCase creates a new GetHistoryUseCase instance.
func NewGetHistoryUseCase(
	debtRepo adapter.DebtRepository,
	historyRepo adapter.PaymentHistoryRepository,
	paymentRepo adapter.DebtPaymentRepository,
) *GetHistoryUseCase {
	return &GetHistoryUseCase{
		debtRepo:    debtRepo,
		historyRepo: historyRepo,
		paymentRepo: paymentRepo,
	}
}

// Execute returns the automatic history entries and manual payments of a debt.
func (uc *GetHistoryUseCase) Execute(ctx context.Context, input DebtBalanceInput) (*GetHistoryOutput, error) {
	debt, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID)
	if err != nil {
		return nil, err
	}

	history, err := uc.historyRepo.FindByDebt(ctx, debt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}

	payments, err := uc.paymentRepo.FindByDebts(ctx, []uuid.UUID{debt.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load manual payments: %w", err)
	}

	return &GetHistoryOutput{History: history, ManualPayments: payments}, nil
}
