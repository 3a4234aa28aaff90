package debt

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// ListDebtsInput represents the input for listing debts.
type ListDebtsInput struct {
	UserID     uuid.UUID
	ActiveOnly bool
}

// ListDebtsOutput represents the output of listing debts.
type ListDebtsOutput struct {
	Debts []*entity.Debt
}

// ListDebtsUseCase handles listing a user's debts.
type ListDebtsUseCase struct {
	debtRepo adapter.DebtRepository
}

// NewListDebtsUseCase creates a new ListDebtsUseCase instance.
func NewListDebtsUseCase(debtRepo adapter.DebtRepository) *ListDebtsUseCase {
	return &ListDebtsUseCase{debtRepo: debtRepo}
}

// Execute performs the debt listing.
func (uc *ListDebtsUseCase) Execute(ctx context.Context, input ListDebtsInput) (*ListDebtsOutput, error) {
	var (
		debts []*entity.Debt
		err   error
	)
	if input.ActiveOnly {
		debts, err = uc.debtRepo.FindActiveByUser(ctx, input.UserID)
	} else {
		debts, err = uc.debtRepo.FindByUser(ctx, input.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}

	return &ListDebtsOutput{Debts: debts}, nil
}
