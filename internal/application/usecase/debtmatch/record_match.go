package debtmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

// RecordMatchInput represents the input for recording a match candidate.
type RecordMatchInput struct {
	Candidate entity.MatchCandidate
}

// RecordMatchOutput represents the output of recording a match candidate.
type RecordMatchOutput struct {
	Match         *entity.DebtTransactionMatch
	Created       bool
	AutoConfirmed bool
	Duplicate     bool // A match for the pair already existed
	Payment       *entity.DebtPaymentHistory
}

// RecordMatchUseCase persists automatic match candidates.
type RecordMatchUseCase struct {
	matchRepo adapter.DebtMatchRepository
	applier   *PaymentApplier
	config    valueobject.MatchingConfig
}

// NewRecordMatchUseCase creates a new RecordMatchUseCase instance.
func NewRecordMatchUseCase(
	matchRepo adapter.DebtMatchRepository,
	applier *PaymentApplier,
	config valueobject.MatchingConfig,
) *RecordMatchUseCase {
	return &RecordMatchUseCase{
		matchRepo: matchRepo,
		applier:   applier,
		config:    config,
	}
}

// Execute records a candidate unless a match for its transaction and debt exists.
// Candidates at or above the auto-confirm threshold are stored confirmed and
// applied as payments immediately; the rest wait in pending.
func (uc *RecordMatchUseCase) Execute(ctx context.Context, input RecordMatchInput) (*RecordMatchOutput, error) {
	candidate := input.Candidate

	existing, err := uc.matchRepo.FindByTransactionAndDebt(ctx, candidate.TransactionID, candidate.DebtID)
	switch {
	case err == nil:
		return uc.duplicate(ctx, existing)
	case !errors.Is(err, domainerror.ErrMatchNotFound):
		return nil, fmt.Errorf("failed to check existing match: %w", err)
	}

	match := entity.NewAutomaticMatch(candidate, uc.config.ShouldAutoConfirm(candidate.Confidence))
	if err := uc.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, domainerror.ErrDuplicateMatch) {
			// Lost the race with a concurrent pass.
			existing, findErr := uc.matchRepo.FindByTransactionAndDebt(ctx, candidate.TransactionID, candidate.DebtID)
			if findErr != nil {
				return &RecordMatchOutput{Duplicate: true}, nil
			}
			return uc.duplicate(ctx, existing)
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	output := &RecordMatchOutput{
		Match:         match,
		Created:       true,
		AutoConfirmed: match.IsConfirmed(),
	}

	if match.IsConfirmed() {
		entry, err := uc.applier.Apply(ctx, match)
		if err != nil {
			return output, fmt.Errorf("match %s confirmed but payment not applied: %w", match.ID, err)
		}
		output.Payment = entry
	}

	return output, nil
}

// duplicate finishes applying a confirmed match whose payment a failed pass left unwritten.
func (uc *RecordMatchUseCase) duplicate(ctx context.Context, existing *entity.DebtTransactionMatch) (*RecordMatchOutput, error) {
	output := &RecordMatchOutput{Match: existing, Duplicate: true}
	if existing.IsConfirmed() {
		entry, err := uc.applier.Apply(ctx, existing)
		if err != nil {
			return output, fmt.Errorf("failed to apply existing match %s: %w", existing.ID, err)
		}
		output.Payment = entry
	}
	return output, nil
}
