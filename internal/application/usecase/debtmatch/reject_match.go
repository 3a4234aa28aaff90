package debtmatch

import (
	"context"
	"fmt"
	"time"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// RejectMatchUseCase handles rejecting pending matches.
type RejectMatchUseCase struct {
	matchRepo adapter.DebtMatchRepository
	debtRepo  adapter.DebtRepository
	metrics   adapter.ScanMetrics
}

// NewRejectMatchUseCase creates a new RejectMatchUseCase instance.
func NewRejectMatchUseCase(
	matchRepo adapter.DebtMatchRepository,
	debtRepo adapter.DebtRepository,
	metrics adapter.ScanMetrics,
) *RejectMatchUseCase {
	return &RejectMatchUseCase{
		matchRepo: matchRepo,
		debtRepo:  debtRepo,
		metrics:   metrics,
	}
}

// Execute moves a pending match to rejected. Rejection has no balance effect.
func (uc *RejectMatchUseCase) Execute(ctx context.Context, input ReviewMatchInput) (*ReviewMatchOutput, error) {
	match, _, err := findOwnedMatch(ctx, uc.matchRepo, uc.debtRepo, input.MatchID, input.UserID)
	if err != nil {
		return nil, err
	}

	if !match.IsPending() {
		return &ReviewMatchOutput{Match: match, AlreadyReviewed: true}, nil
	}

	now := time.Now().UTC()
	moved, err := uc.matchRepo.TransitionFromPending(ctx, match.ID, entity.MatchStatusRejected, now)
	if err != nil {
		return nil, fmt.Errorf("failed to reject match: %w", err)
	}
	if !moved {
		current, err := uc.matchRepo.FindByID(ctx, match.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload match: %w", err)
		}
		return &ReviewMatchOutput{Match: current, AlreadyReviewed: true}, nil
	}

	match.Status = entity.MatchStatusRejected
	match.ReviewedAt = &now
	match.UpdatedAt = now
	uc.metrics.ObserveReview(string(entity.MatchStatusRejected))

	return &ReviewMatchOutput{Match: match}, nil
}
