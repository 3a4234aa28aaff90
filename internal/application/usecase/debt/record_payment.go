package debt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

// RecordPaymentInput represents the input for recording a manual payment.
type RecordPaymentInput struct {
	UserID      uuid.UUID
	DebtID      uuid.UUID
	Principal   decimal.Decimal
	Interest    decimal.Decimal
	PaymentDate *time.Time // Optional, defaults to now
	Notes       string
}

// RecordPaymentOutput represents the output of recording a manual payment.
type RecordPaymentOutput struct {
	Payment *entity.DebtPayment
	Balance balance.BalanceInfo
}

// RecordPaymentUseCase handles manual payments entered by the user.
type RecordPaymentUseCase struct {
	debtRepo    adapter.DebtRepository
	paymentRepo adapter.DebtPaymentRepository
	loader      *ledger.Loader
}

// NewRecordPaymentUseCase creates a new RecordPaymentUseCase instance.
func NewRecordPaymentUseCase(
	debtRepo adapter.DebtRepository,
	paymentRepo adapter.DebtPaymentRepository,
	loader *ledger.Loader,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		loader:      loader,
	}
}

// Execute records the payment, then sets the stored balance to the canonical one.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, input RecordPaymentInput) (*RecordPaymentOutput, error) {
	if !input.Principal.IsPositive() || input.Interest.IsNegative() {
		return nil, domainerror.NewDebtError(
			domainerror.ErrCodeInvalidPayment,
			"principal must be greater than zero and interest cannot be negative",
			domainerror.ErrInvalidPaymentAmount,
		)
	}

	debt, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID)
	if err != nil {
		return nil, err
	}

	paymentDate := time.Now().UTC()
	if input.PaymentDate != nil {
		paymentDate = input.PaymentDate.UTC()
	}

	payment := entity.NewDebtPayment(debt.ID, input.Principal, input.Interest, paymentDate, input.Notes)
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	current, err := uc.loader.Load(ctx, []uuid.UUID{debt.ID})
	if err != nil {
		return nil, err
	}
	info := balance.CalculateBalanceInfo(debt, current)

	status := entity.StatusForBalance(info.CurrentBalance)
	if err := uc.debtRepo.UpdateBalance(ctx, debt.ID, info.CurrentBalance, status); err != nil {
		return nil, fmt.Errorf("failed to update debt balance: %w", err)
	}

	slog.Info("Manual debt payment recorded",
		"debt_id", debt.ID,
		"principal", payment.Principal.String(),
		"interest", payment.Interest.String(),
		"balance", info.CurrentBalance.String(),
	)

	info.StoredBalance = info.CurrentBalance
	return &RecordPaymentOutput{Payment: payment, Balance: info}, nil
}
