// Package matchingrule contains debt matching rule use cases.
package matchingrule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/entity"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

// RuleBootstrapper gives debts a starter rule set derived from their creditor name.
type RuleBootstrapper struct {
	ruleRepo adapter.MatchingRuleRepository
	config   valueobject.MatchingConfig
}

// NewRuleBootstrapper creates a new RuleBootstrapper instance.
func NewRuleBootstrapper(ruleRepo adapter.MatchingRuleRepository, config valueobject.MatchingConfig) *RuleBootstrapper {
	return &RuleBootstrapper{
		ruleRepo: ruleRepo,
		config:   config,
	}
}

// Ensure creates the default rules of a debt that has a creditor and owns no
// rules, disabled ones included. It reports whether rules were created and
// never recreates rules for a debt that already has some.
func (b *RuleBootstrapper) Ensure(ctx context.Context, debt *entity.Debt) (bool, error) {
	count, err := b.ruleRepo.CountByDebt(ctx, debt.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count rules: %w", err)
	}
	if !debtmatch.NeedsDefaultRules(debt, int(count)) {
		return false, nil
	}

	rules := debtmatch.DefaultRules(debt, b.config.DefaultRuleThreshold)
	created, err := b.ruleRepo.CreateIfNone(ctx, debt.ID, rules)
	if err != nil {
		return false, fmt.Errorf("failed to create default rules: %w", err)
	}

	if created {
		slog.Info("Default matching rules created",
			"debt_id", debt.ID,
			"creditor", debt.Creditor,
			"rules", len(rules),
		)
	}
	return created, nil
}
