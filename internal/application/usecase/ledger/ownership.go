package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

// FindOwnedDebt loads a debt and checks it belongs to the user.
func FindOwnedDebt(ctx context.Context, repo adapter.DebtRepository, debtID, userID uuid.UUID) (*entity.Debt, error) {
	debt, err := repo.FindByID(ctx, debtID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDebtNotFound) {
			return nil, domainerror.NewDebtError(
				domainerror.ErrCodeDebtNotFound,
				"debt not found",
				domainerror.ErrDebtNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find debt: %w", err)
	}
	if debt.UserID != userID {
		return nil, domainerror.NewDebtError(
			domainerror.ErrCodeDebtNotAuthorized,
			"not authorized to access this debt",
			domainerror.ErrNotAuthorizedToAccessDebt,
		)
	}
	return debt, nil
}
