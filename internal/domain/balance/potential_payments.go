package balance

import (
	"sort"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// PotentialPayment is an unmatched transaction that might pay a debt.
type PotentialPayment struct {
	Transaction  *entity.Transaction
	RuleID       *uuid.UUID
	Confidence   int
	MatchedField entity.RuleField
	MatchedValue string
}

// FindPotentialPayments scores outgoing transactions not yet matched to the debt
// in any status and returns the ones any rule scores above zero, best first.
// Scores below the rule threshold are kept so reviewers can see near misses.
func FindPotentialPayments(
	debt *entity.Debt,
	transactions []*entity.Transaction,
	existingMatches []*entity.DebtTransactionMatch,
	rules []*entity.MatchingRule,
	generator *debtmatch.Generator,
) []PotentialPayment {
	matched := make(map[uuid.UUID]struct{})
	for _, m := range existingMatches {
		if m != nil && m.DebtID == debt.ID {
			matched[m.TransactionID] = struct{}{}
		}
	}

	var debtRules []*entity.MatchingRule
	for _, r := range rules {
		if r != nil && r.DebtID == debt.ID {
			debtRules = append(debtRules, r)
		}
	}

	var out []PotentialPayment
	for _, tx := range transactions {
		if tx == nil || !tx.IsOutgoing() {
			continue
		}
		if _, ok := matched[tx.ID]; ok {
			continue
		}

		result, rule := generator.BestScore(tx, debtRules)
		if rule == nil || result.Confidence <= 0 {
			continue
		}

		ruleID := rule.ID
		out = append(out, PotentialPayment{
			Transaction:  tx,
			RuleID:       &ruleID,
			Confidence:   result.Confidence,
			MatchedField: result.MatchedField,
			MatchedValue: result.MatchedValue,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Transaction.TransactionDate.After(out[j].Transaction.TransactionDate)
	})
	return out
}
