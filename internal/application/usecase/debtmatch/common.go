// Package debtmatch contains the debt match lifecycle use cases.
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

// findOwnedMatch loads a match together with its debt and checks the debt belongs to the user.
func findOwnedMatch(
	ctx context.Context,
	matchRepo adapter.DebtMatchRepository,
	debtRepo adapter.DebtRepository,
	matchID, userID uuid.UUID,
) (*entity.DebtTransactionMatch, *entity.Debt, error) {
	match, err := matchRepo.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, domainerror.ErrMatchNotFound) {
			return nil, nil, domainerror.NewMatchError(
				domainerror.ErrCodeMatchNotFound,
				"match not found",
				domainerror.ErrMatchNotFound,
			)
		}
		return nil, nil, fmt.Errorf("failed to find match: %w", err)
	}

	debt, err := ledger.FindOwnedDebt(ctx, debtRepo, match.DebtID, userID)
	if err != nil {
		// Hide other users' matches behind a plain not found.
		var debtErr *domainerror.DebtError
		if errors.As(err, &debtErr) {
			return nil, nil, domainerror.NewMatchError(
				domainerror.ErrCodeMatchNotFound,
				"match not found",
				domainerror.ErrMatchNotFound,
			)
		}
		return nil, nil, err
	}
	return match, debt, nil
}
