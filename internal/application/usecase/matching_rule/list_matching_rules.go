package matchingrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// ListMatchingRulesInput represents the input for listing a debt's rules.
type ListMatchingRulesInput struct {
	UserID uuid.UUID
	DebtID uuid.UUID
}

// ListMatchingRulesOutput represents the output of listing rules.
type ListMatchingRulesOutput struct {
	Rules        []*entity.MatchingRule
	Bootstrapped bool // Default rules were created by this call
}

// ListMatchingRulesUseCase handles listing matching rules.
type ListMatchingRulesUseCase struct {
	ruleRepo     adapter.MatchingRuleRepository
	debtRepo     adapter.DebtRepository
	bootstrapper *RuleBootstrapper
}

// NewListMatchingRulesUseCase creates a new ListMatchingRulesUseCase instance.
func NewListMatchingRulesUseCase(
	ruleRepo adapter.MatchingRuleRepository,
	debtRepo adapter.DebtRepository,
	bootstrapper *RuleBootstrapper,
) *ListMatchingRulesUseCase {
	return &ListMatchingRulesUseCase{
		ruleRepo:     ruleRepo,
		debtRepo:     debtRepo,
		bootstrapper: bootstrapper,
	}
}

// Execute returns every rule of a debt, bootstrapping the defaults first when the debt has none.
func (uc *ListMatchingRulesUseCase) Execute(ctx context.Context, input ListMatchingRulesInput) (*ListMatchingRulesOutput, error) {
	debt, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID)
	if err != nil {
		return nil, err
	}

	bootstrapped, err := uc.bootstrapper.Ensure(ctx, debt)
	if err != nil {
		return nil, err
	}

	rules, err := uc.ruleRepo.FindByDebt(ctx, debt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matching rules: %w", err)
	}

	return &ListMatchingRulesOutput{Rules: rules, Bootstrapped: bootstrapped}, nil
}
