package debtmatch

import (
	"sort"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// Generator proposes debt matches for transactions.
type Generator struct {
	evaluator *Evaluator
}

// NewGenerator creates a new Generator backed by the given evaluator.
func NewGenerator(evaluator *Evaluator) *Generator {
	return &Generator{evaluator: evaluator}
}

// Evaluator returns the evaluator the generator scores rules with.
func (g *Generator) Evaluator() *Evaluator {
	return g.evaluator
}

// FindMatches returns at most one candidate per active debt whose enabled rules
// match the transaction. When several rules of a debt match, the highest
// confidence wins. Incoming and zero-amount transactions never match.
// Candidates for different debts are returned independently, ordered by
// confidence descending.
func (g *Generator) FindMatches(tx *entity.Transaction, debts []*entity.Debt, rules []*entity.MatchingRule) []entity.MatchCandidate {
	if tx == nil || !tx.IsOutgoing() {
		return nil
	}

	rulesByDebt := GroupRulesByDebt(rules)

	var candidates []entity.MatchCandidate
	for _, debt := range debts {
		if debt == nil || !debt.IsActive() {
			continue
		}

		var best *entity.MatchCandidate
		for _, rule := range rulesByDebt[debt.ID] {
			if !rule.Enabled {
				continue
			}

			result := g.evaluator.Evaluate(tx, rule)
			if !result.IsMatch || result.Confidence < rule.ConfidenceThreshold {
				continue
			}

			if best == nil || result.Confidence > best.Confidence {
				best = &entity.MatchCandidate{
					TransactionID: tx.ID,
					DebtID:        debt.ID,
					RuleID:        rule.ID,
					Confidence:    result.Confidence,
					MatchedField:  result.MatchedField,
					MatchedValue:  result.MatchedValue,
				}
			}
		}

		if best != nil {
			candidates = append(candidates, *best)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// BestScore returns the highest raw score any enabled rule gives the transaction,
// whether or not it clears the rule's threshold, and the rule that produced it.
func (g *Generator) BestScore(tx *entity.Transaction, rules []*entity.MatchingRule) (Result, *entity.MatchingRule) {
	var best Result
	var bestRule *entity.MatchingRule

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		result := g.evaluator.Evaluate(tx, rule)
		if bestRule == nil || result.Confidence > best.Confidence {
			best = result
			bestRule = rule
		}
	}
	return best, bestRule
}

// GroupRulesByDebt indexes rules by their owning debt.
func GroupRulesByDebt(rules []*entity.MatchingRule) map[uuid.UUID][]*entity.MatchingRule {
	grouped := make(map[uuid.UUID][]*entity.MatchingRule)
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		grouped[rule.DebtID] = append(grouped[rule.DebtID], rule)
	}
	return grouped
}
