package debtmatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// ReviewMatchInput represents the input for confirming or rejecting a match.
type ReviewMatchInput struct {
	UserID  uuid.UUID
	MatchID uuid.UUID
}

// ReviewMatchOutput represents the output of a review decision.
type ReviewMatchOutput struct {
	Match           *entity.DebtTransactionMatch
	AlreadyReviewed bool // The match had left pending before this call; nothing changed
	Payment         *entity.DebtPaymentHistory
}

// ConfirmMatchUseCase handles confirming pending matches.
type ConfirmMatchUseCase struct {
	matchRepo adapter.DebtMatchRepository
	debtRepo  adapter.DebtRepository
	applier   *PaymentApplier
	metrics   adapter.ScanMetrics
}

// NewConfirmMatchUseCase creates a new ConfirmMatchUseCase instance.
func NewConfirmMatchUseCase(
	matchRepo adapter.DebtMatchRepository,
	debtRepo adapter.DebtRepository,
	applier *PaymentApplier,
	metrics adapter.ScanMetrics,
) *ConfirmMatchUseCase {
	return &ConfirmMatchUseCase{
		matchRepo: matchRepo,
		debtRepo:  debtRepo,
		applier:   applier,
		metrics:   metrics,
	}
}

// Execute moves a pending match to confirmed and applies its payment.
// Confirming a match that is already confirmed or rejected changes nothing.
func (uc *ConfirmMatchUseCase) Execute(ctx context.Context, input ReviewMatchInput) (*ReviewMatchOutput, error) {
	match, _, err := findOwnedMatch(ctx, uc.matchRepo, uc.debtRepo, input.MatchID, input.UserID)
	if err != nil {
		return nil, err
	}

	if !match.IsPending() {
		return &ReviewMatchOutput{Match: match, AlreadyReviewed: true}, nil
	}

	now := time.Now().UTC()
	moved, err := uc.matchRepo.TransitionFromPending(ctx, match.ID, entity.MatchStatusConfirmed, now)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm match: %w", err)
	}
	if !moved {
		current, err := uc.matchRepo.FindByID(ctx, match.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload match: %w", err)
		}
		return &ReviewMatchOutput{Match: current, AlreadyReviewed: true}, nil
	}

	match.Status = entity.MatchStatusConfirmed
	match.ReviewedAt = &now
	match.UpdatedAt = now
	uc.metrics.ObserveReview(string(entity.MatchStatusConfirmed))

	entry, err := uc.applier.Apply(ctx, match)
	if err != nil {
		slog.Error("Confirmed match payment not applied",
			"match_id", match.ID,
			"debt_id", match.DebtID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	return &ReviewMatchOutput{Match: match, Payment: entry}, nil
}
