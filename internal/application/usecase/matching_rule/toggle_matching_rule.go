package matchingrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// ToggleMatchingRuleInput represents the input for enabling or disabling a rule.
type ToggleMatchingRuleInput struct {
	UserID  uuid.UUID
	RuleID  uuid.UUID
	Enabled *bool // Optional, flips the current state when nil
}

// ToggleMatchingRuleOutput represents the output of toggling a rule.
type ToggleMatchingRuleOutput struct {
	Rule *entity.MatchingRule
}

// ToggleMatchingRuleUseCase handles enabling and disabling rules.
type ToggleMatchingRuleUseCase struct {
	ruleRepo adapter.MatchingRuleRepository
	debtRepo adapter.DebtRepository
}

// NewToggleMatchingRuleUseCase creates a new ToggleMatchingRuleUseCase instance.
func NewToggleMatchingRuleUseCase(ruleRepo adapter.MatchingRuleRepository, debtRepo adapter.DebtRepository) *ToggleMatchingRuleUseCase {
	return &ToggleMatchingRuleUseCase{
		ruleRepo: ruleRepo,
		debtRepo: debtRepo,
	}
}

// Execute performs the toggle.
func (uc *ToggleMatchingRuleUseCase) Execute(ctx context.Context, input ToggleMatchingRuleInput) (*ToggleMatchingRuleOutput, error) {
	rule, err := findOwnedRule(ctx, uc.ruleRepo, uc.debtRepo, input.RuleID, input.UserID)
	if err != nil {
		return nil, err
	}

	enabled := !rule.Enabled
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	if err := uc.ruleRepo.SetEnabled(ctx, rule.ID, enabled); err != nil {
		return nil, fmt.Errorf("failed to toggle matching rule: %w", err)
	}
	rule.Enabled = enabled

	return &ToggleMatchingRuleOutput{Rule: rule}, nil
}
