// Package debt contains debt-related use cases.
package debt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/application/adapter"
	matchingrule "github.com/finance-tracker/debts/internal/application/usecase/matching_rule"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

const (
	// MaxDebtNameLength is the maximum allowed length for debt names.
	MaxDebtNameLength = 100
)

// CreateDebtInput represents the input for debt creation.
type CreateDebtInput struct {
	UserID         uuid.UUID
	Name           string
	Creditor       string
	OriginalAmount decimal.Decimal
	InterestRate   decimal.Decimal
	MinimumPayment decimal.Decimal
	Priority       string
}

// CreateDebtOutput represents the output of debt creation.
type CreateDebtOutput struct {
	Debt         *entity.Debt
	RulesCreated bool
}

// CreateDebtUseCase handles debt creation logic.
type CreateDebtUseCase struct {
	debtRepo     adapter.DebtRepository
	bootstrapper *matchingrule.RuleBootstrapper
}

// NewCreateDebtUseCase creates a new CreateDebtUseCase instance.
func NewCreateDebtUseCase(debtRepo adapter.DebtRepository, bootstrapper *matchingrule.RuleBootstrapper) *CreateDebtUseCase {
	return &CreateDebtUseCase{
		debtRepo:     debtRepo,
		bootstrapper: bootstrapper,
	}
}

// Execute performs the debt creation and bootstraps creditor rules.
func (uc *CreateDebtUseCase) Execute(ctx context.Context, input CreateDebtInput) (*CreateDebtOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > MaxDebtNameLength {
		return nil, domainerror.NewDebtError(
			domainerror.ErrCodeInvalidDebtName,
			fmt.Sprintf("name is required and must not exceed %d characters", MaxDebtNameLength),
			domainerror.ErrInvalidDebtName,
		)
	}

	if !input.OriginalAmount.IsPositive() {
		return nil, domainerror.NewDebtError(
			domainerror.ErrCodeInvalidDebtAmount,
			"original amount must be greater than zero",
			domainerror.ErrInvalidDebtAmount,
		)
	}
	if input.InterestRate.IsNegative() || input.MinimumPayment.IsNegative() {
		return nil, domainerror.NewDebtError(
			domainerror.ErrCodeInvalidDebtAmount,
			"interest rate and minimum payment cannot be negative",
			domainerror.ErrInvalidDebtAmount,
		)
	}

	priority := entity.DebtPriorityMedium
	if input.Priority != "" {
		priority = entity.DebtPriority(strings.ToLower(input.Priority))
		if !priority.IsValid() {
			return nil, domainerror.NewDebtError(
				domainerror.ErrCodeInvalidDebtPriority,
				"priority must be one of: high, medium, low",
				domainerror.ErrInvalidDebtPriority,
			)
		}
	}

	debt := entity.NewDebt(
		input.UserID,
		name,
		strings.TrimSpace(input.Creditor),
		input.OriginalAmount,
		input.InterestRate,
		input.MinimumPayment,
		priority,
	)

	if err := uc.debtRepo.Create(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to create debt: %w", err)
	}

	created, err := uc.bootstrapper.Ensure(ctx, debt)
	if err != nil {
		// Rules are bootstrapped again on first use.
		slog.Warn("Default rule bootstrap failed",
			"debt_id", debt.ID,
			"error", err,
		)
	}

	return &CreateDebtOutput{Debt: debt, RulesCreated: created}, nil
}
