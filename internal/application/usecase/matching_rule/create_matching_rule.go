package matchingrule

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

const (
	// MaxRuleValueLength is the maximum allowed length for rule values and patterns.
	MaxRuleValueLength = 255
)

// CreateMatchingRuleInput represents the input for matching rule creation.
type CreateMatchingRuleInput struct {
	UserID              uuid.UUID
	DebtID              uuid.UUID
	Type                string
	Field               string
	Value               string
	ConfidenceThreshold *int // Optional, defaults to the configured rule threshold
}

// CreateMatchingRuleOutput represents the output of matching rule creation.
type CreateMatchingRuleOutput struct {
	Rule *entity.MatchingRule
}

// CreateMatchingRuleUseCase handles matching rule creation logic.
type CreateMatchingRuleUseCase struct {
	ruleRepo adapter.MatchingRuleRepository
	debtRepo adapter.DebtRepository
	config   valueobject.MatchingConfig
}

// NewCreateMatchingRuleUseCase creates a new CreateMatchingRuleUseCase instance.
func NewCreateMatchingRuleUseCase(
	ruleRepo adapter.MatchingRuleRepository,
	debtRepo adapter.DebtRepository,
	config valueobject.MatchingConfig,
) *CreateMatchingRuleUseCase {
	return &CreateMatchingRuleUseCase{
		ruleRepo: ruleRepo,
		debtRepo: debtRepo,
		config:   config,
	}
}

// Execute performs the matching rule creation.
func (uc *CreateMatchingRuleUseCase) Execute(ctx context.Context, input CreateMatchingRuleInput) (*CreateMatchingRuleOutput, error) {
	ruleType, err := entity.ParseRuleType(input.Type)
	if err != nil {
		return nil, domainerror.NewMatchingRuleError(
			domainerror.ErrCodeInvalidRuleType,
			"type must be one of: exact, fuzzy, pattern, account",
			domainerror.ErrInvalidRuleType,
		)
	}

	field, err := entity.ParseRuleField(input.Field)
	if err != nil {
		return nil, domainerror.NewMatchingRuleError(
			domainerror.ErrCodeInvalidRuleField,
			"field must be one of: merchant_name, counterparty_name, description, account_number",
			domainerror.ErrInvalidRuleField,
		)
	}

	if ruleType == entity.RuleTypeAccount && field != entity.RuleFieldAccountNumber {
		return nil, domainerror.NewMatchingRuleError(
			domainerror.ErrCodeAccountRuleField,
			"account rules must use the account_number field",
			domainerror.ErrAccountRuleField,
		)
	}

	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, domainerror.NewMatchingRuleError(
			domainerror.ErrCodeEmptyRuleValue,
			"value is required",
			domainerror.ErrEmptyRuleValue,
		)
	}
	if len(value) > MaxRuleValueLength {
		return nil, domainerror.NewMatchingRuleError(
			domainerror.ErrCodeEmptyRuleValue,
			fmt.Sprintf("value must not exceed %d characters", MaxRuleValueLength),
			domainerror.ErrEmptyRuleValue,
		)
	}

	if ruleType == entity.RuleTypePattern {
		if _, err := regexp.Compile(value); err != nil {
			return nil, domainerror.NewMatchingRuleError(
				domainerror.ErrCodeInvalidRulePattern,
				"invalid regex pattern: "+err.Error(),
				domainerror.ErrInvalidRulePattern,
			)
		}
	}

	threshold := uc.config.DefaultRuleThreshold
	if input.ConfidenceThreshold != nil {
		threshold = *input.ConfidenceThreshold
		if threshold < 0 || threshold > 100 {
			return nil, domainerror.NewMatchingRuleError(
				domainerror.ErrCodeInvalidThreshold,
				"confidence threshold must be between 0 and 100",
				domainerror.ErrInvalidConfidenceThreshold,
			)
		}
	}

	if _, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID); err != nil {
		return nil, err
	}

	rule := entity.NewMatchingRule(input.DebtID, ruleType, field, value, threshold)
	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create matching rule: %w", err)
	}

	return &CreateMatchingRuleOutput{Rule: rule}, nil
}

// findOwnedRule loads a rule and checks its debt belongs to the user.
func findOwnedRule(
	ctx context.Context,
	ruleRepo adapter.MatchingRuleRepository,
	debtRepo adapter.DebtRepository,
	ruleID, userID uuid.UUID,
) (*entity.MatchingRule, error) {
	rule, err := ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrMatchingRuleNotFound) {
			return nil, domainerror.NewMatchingRuleError(
				domainerror.ErrCodeMatchingRuleNotFound,
				"matching rule not found",
				domainerror.ErrMatchingRuleNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find matching rule: %w", err)
	}

	if _, err := ledger.FindOwnedDebt(ctx, debtRepo, rule.DebtID, userID); err != nil {
		var debtErr *domainerror.DebtError
		if errors.As(err, &debtErr) {
			return nil, domainerror.NewMatchingRuleError(
				domainerror.ErrCodeMatchingRuleNotAllowed,
				"not authorized to modify this rule",
				domainerror.ErrMatchingRuleNotFound,
			)
		}
		return nil, err
	}
	return rule, nil
}
