package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

const (
	// defaultSuggestionDays is how far back suggestions look when no window is given.
	defaultSuggestionDays = 90
	// maxSuggestionTransactions bounds the transactions scored per request.
	maxSuggestionTransactions = 500
	// defaultSuggestionLimit is the number of suggestions returned when no limit is given.
	defaultSuggestionLimit = 20
)

// FindPotentialPaymentsInput represents the input for payment suggestions.
type FindPotentialPaymentsInput struct {
	UserID uuid.UUID
	DebtID uuid.UUID
	Days   int
	Limit  int
}

// FindPotentialPaymentsOutput represents ranked payment suggestions for a debt.
type FindPotentialPaymentsOutput struct {
	Payments         []balance.PotentialPayment
	UsedDefaultRules bool // The debt has no rules; suggestions come from unsaved creditor rules
}

// FindPotentialPaymentsUseCase handles suggesting unmatched transactions that may pay a debt.
type FindPotentialPaymentsUseCase struct {
	debtRepo        adapter.DebtRepository
	ruleRepo        adapter.MatchingRuleRepository
	matchRepo       adapter.DebtMatchRepository
	transactionRepo adapter.TransactionRepository
	generator       *debtmatch.Generator
	config          valueobject.MatchingConfig
}

// NewFindPotentialPaymentsUseCase creates a new FindPotentialPaymentsUseCase instance.
func NewFindPotentialPaymentsUseCase(
	debtRepo adapter.DebtRepository,
	ruleRepo adapter.MatchingRuleRepository,
	matchRepo adapter.DebtMatchRepository,
	transactionRepo adapter.TransactionRepository,
	generator *debtmatch.Generator,
	config valueobject.MatchingConfig,
) *FindPotentialPaymentsUseCase {
	return &FindPotentialPaymentsUseCase{
		debtRepo:        debtRepo,
		ruleRepo:        ruleRepo,
		matchRepo:       matchRepo,
		transactionRepo: transactionRepo,
		generator:       generator,
		config:          config,
	}
}

// Execute scores the user's recent outgoing transactions against the debt's rules.
func (uc *FindPotentialPaymentsUseCase) Execute(ctx context.Context, input FindPotentialPaymentsInput) (*FindPotentialPaymentsOutput, error) {
	debt, err := ledger.FindOwnedDebt(ctx, uc.debtRepo, input.DebtID, input.UserID)
	if err != nil {
		return nil, err
	}

	rules, err := uc.ruleRepo.FindByDebt(ctx, debt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matching rules: %w", err)
	}
	usedDefaults := false
	if debtmatch.NeedsDefaultRules(debt, len(rules)) {
		rules = debtmatch.DefaultRules(debt, uc.config.DefaultRuleThreshold)
		usedDefaults = true
	}

	days := input.Days
	if days <= 0 {
		days = defaultSuggestionDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	list, err := uc.transactionRepo.FindByFilter(ctx,
		adapter.TransactionFilter{UserID: input.UserID, StartDate: &since, OutgoingOnly: true},
		adapter.TransactionPagination{Page: 1, Limit: maxSuggestionTransactions},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	matches, err := uc.matchRepo.FindByDebts(ctx, []uuid.UUID{debt.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	payments := balance.FindPotentialPayments(debt, list.Transactions, matches, rules, uc.generator)

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if len(payments) > limit {
		payments = payments[:limit]
	}

	return &FindPotentialPaymentsOutput{Payments: payments, UsedDefaultRules: usedDefaults}, nil
}
