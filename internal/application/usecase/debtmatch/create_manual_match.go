package debtmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

// CreateManualMatchInput represents the input for pairing a transaction with a debt by hand.
type CreateManualMatchInput struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	DebtID        uuid.UUID
}

// CreateManualMatchOutput represents the output of creating a manual match.
type CreateManualMatchOutput struct {
	Match   *entity.DebtTransactionMatch
	Payment *entity.DebtPaymentHistory
}

// CreateManualMatchUseCase handles manual matches.
type CreateManualMatchUseCase struct {
	matchRepo       adapter.DebtMatchRepository
	debtRepo        adapter.DebtRepository
	transactionRepo adapter.TransactionRepository
	applier         *PaymentApplier
}

// NewCreateManualMatchUseCase creates a new CreateManualMatchUseCase instance.
func NewCreateManualMatchUseCase(
	matchRepo adapter.DebtMatchRepository,
	debtRepo adapter.DebtRepository,
	transactionRepo adapter.TransactionRepository,
	applier *PaymentApplier,
) *CreateManualMatchUseCase {
	return &CreateManualMatchUseCase{
		matchRepo:       matchRepo,
		debtRepo:        debtRepo,
		transactionRepo: transactionRepo,
		applier:         applier,
	}
}

// Execute creates a confirmed manual match and applies its payment.
// It fails when the pair already has a match in any status.
func (uc *CreateManualMatchUseCase) Execute(ctx context.Context, input CreateManualMatchInput) (*CreateManualMatchOutput, error) {
	if _, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID); err != nil {
		return nil, err
	}

	tx, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	if tx.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	if !tx.IsOutgoing() {
		return nil, domainerror.NewMatchError(
			domainerror.ErrCodeTransactionNotOutgoing,
			"only outgoing transactions can be matched to a debt",
			domainerror.ErrTransactionNotOutgoing,
		)
	}

	_, err = uc.matchRepo.FindByTransactionAndDebt(ctx, tx.ID, input.DebtID)
	if err == nil {
		return nil, duplicateMatchError()
	}
	if !errors.Is(err, domainerror.ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to check existing match: %w", err)
	}

	match := entity.NewManualMatch(tx.ID, input.DebtID)
	if err := uc.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, domainerror.ErrDuplicateMatch) {
			return nil, duplicateMatchError()
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	entry, err := uc.applier.Apply(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	return &CreateManualMatchOutput{Match: match, Payment: entry}, nil
}

func duplicateMatchError() error {
	return domainerror.NewMatchError(
		domainerror.ErrCodeDuplicateMatch,
		"transaction is already matched to this debt",
		domainerror.ErrDuplicateMatch,
	)
}
