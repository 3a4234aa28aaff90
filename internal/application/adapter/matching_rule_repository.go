// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// MatchingRuleRepository defines the interface for matching rule persistence operations.
type MatchingRuleRepository interface {
	// Create creates a new matching rule.
	Create(ctx context.Context, rule *entity.MatchingRule) error

	// CreateIfNone inserts the rules only when the debt owns no rules at all,
	// disabled ones included. It reports whether the rules were inserted.
	CreateIfNone(ctx context.Context, debtID uuid.UUID, rules []*entity.MatchingRule) (bool, error)

	// FindByID retrieves a matching rule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MatchingRule, error)

	// FindByDebt retrieves every rule of a debt, enabled or not.
	FindByDebt(ctx context.Context, debtID uuid.UUID) ([]*entity.MatchingRule, error)

	// FindEnabledByDebts retrieves the enabled rules of the given debts.
	FindEnabledByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.MatchingRule, error)

	// CountByDebt counts the rules of a debt, enabled or not.
	CountByDebt(ctx context.Context, debtID uuid.UUID) (int64, error)

	// SetEnabled enables or disables a rule.
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error

	// Delete removes a rule.
	Delete(ctx context.Context, id uuid.UUID) error
}
