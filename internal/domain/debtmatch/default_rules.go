package debtmatch

import (
	"strings"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// defaultRuleFields are the fields a creditor name usually shows up in.
var defaultRuleFields = []entity.RuleField{
	entity.RuleFieldMerchantName,
	entity.RuleFieldCounterpartyName,
}

// NeedsDefaultRules reports whether a debt should get a starter rule set.
// Disabled rules count as existing rules.
func NeedsDefaultRules(debt *entity.Debt, existingRules int) bool {
	return debt != nil && existingRules == 0 && strings.TrimSpace(debt.Creditor) != ""
}

// DefaultRules builds the starter rules for a debt from its creditor name:
// one fuzzy rule on the merchant name and one on the counterparty name.
// It returns nil when the debt has no creditor.
func DefaultRules(debt *entity.Debt, threshold int) []*entity.MatchingRule {
	if debt == nil {
		return nil
	}
	creditor := strings.TrimSpace(debt.Creditor)
	if creditor == "" {
		return nil
	}

	rules := make([]*entity.MatchingRule, 0, len(defaultRuleFields))
	for _, field := range defaultRuleFields {
		rules = append(rules, entity.NewMatchingRule(debt.ID, entity.RuleTypeFuzzy, field, creditor, threshold))
	}
	return rules
}
