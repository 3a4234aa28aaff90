package matchingrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
)

// DeleteMatchingRuleInput represents the input for deleting a rule.
type DeleteMatchingRuleInput struct {
	UserID uuid.UUID
	RuleID uuid.UUID
}

// DeleteMatchingRuleUseCase handles deleting rules.
// Matches created by the rule keep their history.
type DeleteMatchingRuleUseCase struct {
	ruleRepo adapter.MatchingRuleRepository
	debtRepo adapter.DebtRepository
}

// NewDeleteMatchingRuleUseCase creates a new DeleteMatchingRuleUseCase instance.
func NewDeleteMatchingRuleUseCase(ruleRepo adapter.MatchingRuleRepository, debtRepo adapter.DebtRepository) *DeleteMatchingRuleUseCase {
	return &DeleteMatchingRuleUseCase{
		ruleRepo: ruleRepo,
		debtRepo: debtRepo,
	}
}

// Execute performs the deletion.
func (uc *DeleteMatchingRuleUseCase) Execute(ctx context.Context, input DeleteMatchingRuleInput) error {
	rule, err := findOwnedRule(ctx, uc.ruleRepo, uc.debtRepo, input.RuleID, input.UserID)
	if err != nil {
		return err
	}

	if err := uc.ruleRepo.Delete(ctx, rule.ID); err != nil {
		return fmt.Errorf("failed to delete matching rule: %w", err)
	}
	return nil
}
