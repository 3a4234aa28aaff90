package matchingrule_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/debts/internal/application/adapter"
	matchingrule "github.com/finance-tracker/debts/internal/application/usecase/matching_rule"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
	"github.com/finance-tracker/debts/internal/integration/persistence"
	"github.com/finance-tracker/debts/internal/integration/persistence/testdb"
)

type ruleFixture struct {
	ctx    context.Context
	userID uuid.UUID
	debts  adapter.DebtRepository
	rules  adapter.MatchingRuleRepository

	create *matchingrule.CreateMatchingRuleUseCase
	list   *matchingrule.ListMatchingRulesUseCase
	toggle *matchingrule.ToggleMatchingRuleUseCase
	delete *matchingrule.DeleteMatchingRuleUseCase
}

func newRuleFixture(t *testing.T) *ruleFixture {
	t.Helper()
	db := testdb.Open(t)
	cfg := valueobject.DefaultMatchingConfig()

	f := &ruleFixture{
		ctx:    context.Background(),
		userID: uuid.New(),
		debts:  persistence.NewDebtRepository(db),
		rules:  persistence.NewMatchingRuleRepository(db),
	}
	bootstrapper := matchingrule.NewRuleBootstrapper(f.rules, cfg)
	f.create = matchingrule.NewCreateMatchingRuleUseCase(f.rules, f.debts, cfg)
	f.list = matchingrule.NewListMatchingRulesUseCase(f.rules, f.debts, bootstrapper)
	f.toggle = matchingrule.NewToggleMatchingRuleUseCase(f.rules, f.debts)
	f.delete = matchingrule.NewDeleteMatchingRuleUseCase(f.rules, f.debts)
	return f
}

func (f *ruleFixture) seedDebt(t *testing.T, creditor string) *entity.Debt {
	t.Helper()
	debt := entity.NewDebt(f.userID, "Car loan", creditor, decimal.NewFromInt(5000), decimal.Zero, decimal.Zero, entity.DebtPriorityLow)
	require.NoError(t, f.debts.Create(f.ctx, debt))
	return debt
}

func intPtr(v int) *int { return &v }

func TestCreateMatchingRule_Validation(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "")

	tests := []struct {
		name  string
		input matchingrule.CreateMatchingRuleInput
		code  domainerror.MatchingRuleErrorCode
	}{
		{
			name:  "unknown type",
			input: matchingrule.CreateMatchingRuleInput{Type: "similar", Field: "merchant_name", Value: "x"},
			code:  domainerror.ErrCodeInvalidRuleType,
		},
		{
			name:  "unknown field",
			input: matchingrule.CreateMatchingRuleInput{Type: "exact", Field: "category", Value: "x"},
			code:  domainerror.ErrCodeInvalidRuleField,
		},
		{
			name:  "account rule on merchant",
			input: matchingrule.CreateMatchingRuleInput{Type: "account", Field: "merchant_name", Value: "123"},
			code:  domainerror.ErrCodeAccountRuleField,
		},
		{
			name:  "blank value",
			input: matchingrule.CreateMatchingRuleInput{Type: "exact", Field: "description", Value: "   "},
			code:  domainerror.ErrCodeEmptyRuleValue,
		},
		{
			name:  "bad regex",
			input: matchingrule.CreateMatchingRuleInput{Type: "pattern", Field: "description", Value: "ACME("},
			code:  domainerror.ErrCodeInvalidRulePattern,
		},
		{
			name:  "threshold above 100",
			input: matchingrule.CreateMatchingRuleInput{Type: "fuzzy", Field: "merchant_name", Value: "acme", ConfidenceThreshold: intPtr(101)},
			code:  domainerror.ErrCodeInvalidThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = f.userID
			tt.input.DebtID = debt.ID

			_, err := f.create.Execute(f.ctx, tt.input)

			var ruleErr *domainerror.MatchingRuleError
			require.ErrorAs(t, err, &ruleErr)
			require.Equal(t, tt.code, ruleErr.Code)
		})
	}

	count, err := f.rules.CountByDebt(f.ctx, debt.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCreateMatchingRule_Success(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "")

	out, err := f.create.Execute(f.ctx, matchingrule.CreateMatchingRuleInput{
		UserID: f.userID,
		DebtID: debt.ID,
		Type:   "PATTERN",
		Field:  "description",
		Value:  `  ACME\s+CARD  `,
	})
	require.NoError(t, err)
	require.Equal(t, entity.RuleTypePattern, out.Rule.Type)
	require.Equal(t, `ACME\s+CARD`, out.Rule.Value)
	require.Equal(t, valueobject.DefaultMatchingConfig().DefaultRuleThreshold, out.Rule.ConfidenceThreshold)
	require.True(t, out.Rule.Enabled)

	out, err = f.create.Execute(f.ctx, matchingrule.CreateMatchingRuleInput{
		UserID:              f.userID,
		DebtID:              debt.ID,
		Type:                "account",
		Field:               "account_number",
		Value:               "GB29 NWBK 6016",
		ConfidenceThreshold: intPtr(0),
	})
	require.NoError(t, err)
	require.Zero(t, out.Rule.ConfidenceThreshold)
}

func TestCreateMatchingRule_ForeignDebt(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "")

	_, err := f.create.Execute(f.ctx, matchingrule.CreateMatchingRuleInput{
		UserID: uuid.New(),
		DebtID: debt.ID,
		Type:   "exact",
		Field:  "merchant_name",
		Value:  "Acme",
	})
	require.ErrorIs(t, err, domainerror.ErrNotAuthorizedToAccessDebt)

	_, err = f.create.Execute(f.ctx, matchingrule.CreateMatchingRuleInput{
		UserID: f.userID,
		DebtID: uuid.New(),
		Type:   "exact",
		Field:  "merchant_name",
		Value:  "Acme",
	})
	require.ErrorIs(t, err, domainerror.ErrDebtNotFound)
}

func TestListMatchingRules_BootstrapsOnce(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "Northwind Finance")

	first, err := f.list.Execute(f.ctx, matchingrule.ListMatchingRulesInput{UserID: f.userID, DebtID: debt.ID})
	require.NoError(t, err)
	require.True(t, first.Bootstrapped)
	require.Len(t, first.Rules, 2)
	for _, rule := range first.Rules {
		require.Equal(t, entity.RuleTypeFuzzy, rule.Type)
		require.Equal(t, "Northwind Finance", rule.Value)
	}

	second, err := f.list.Execute(f.ctx, matchingrule.ListMatchingRulesInput{UserID: f.userID, DebtID: debt.ID})
	require.NoError(t, err)
	require.False(t, second.Bootstrapped)
	require.Len(t, second.Rules, 2)
}

func TestListMatchingRules_NoCreditor(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "  ")

	out, err := f.list.Execute(f.ctx, matchingrule.ListMatchingRulesInput{UserID: f.userID, DebtID: debt.ID})
	require.NoError(t, err)
	require.False(t, out.Bootstrapped)
	require.Empty(t, out.Rules)
}

func TestListMatchingRules_DisabledRulesBlockBootstrap(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "Northwind Finance")

	created, err := f.create.Execute(f.ctx, matchingrule.CreateMatchingRuleInput{
		UserID: f.userID, DebtID: debt.ID, Type: "exact", Field: "merchant_name", Value: "NWF",
	})
	require.NoError(t, err)
	_, err = f.toggle.Execute(f.ctx, matchingrule.ToggleMatchingRuleInput{UserID: f.userID, RuleID: created.Rule.ID})
	require.NoError(t, err)

	out, err := f.list.Execute(f.ctx, matchingrule.ListMatchingRulesInput{UserID: f.userID, DebtID: debt.ID})
	require.NoError(t, err)
	require.False(t, out.Bootstrapped)
	require.Len(t, out.Rules, 1)
	require.False(t, out.Rules[0].Enabled)
}

func TestToggleMatchingRule(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "")
	created, err := f.create.Execute(f.ctx, matchingrule.CreateMatchingRuleInput{
		UserID: f.userID, DebtID: debt.ID, Type: "exact", Field: "merchant_name", Value: "Acme",
	})
	require.NoError(t, err)
	ruleID := created.Rule.ID

	out, err := f.toggle.Execute(f.ctx, matchingrule.ToggleMatchingRuleInput{UserID: f.userID, RuleID: ruleID})
	require.NoError(t, err)
	require.False(t, out.Rule.Enabled)

	enabled := true
	out, err = f.toggle.Execute(f.ctx, matchingrule.ToggleMatchingRuleInput{UserID: f.userID, RuleID: ruleID, Enabled: &enabled})
	require.NoError(t, err)
	require.True(t, out.Rule.Enabled)

	stored, err := f.rules.FindByID(f.ctx, ruleID)
	require.NoError(t, err)
	require.True(t, stored.Enabled)

	_, err = f.toggle.Execute(f.ctx, matchingrule.ToggleMatchingRuleInput{UserID: uuid.New(), RuleID: ruleID})
	require.ErrorIs(t, err, domainerror.ErrMatchingRuleNotFound)

	_, err = f.toggle.Execute(f.ctx, matchingrule.ToggleMatchingRuleInput{UserID: f.userID, RuleID: uuid.New()})
	require.ErrorIs(t, err, domainerror.ErrMatchingRuleNotFound)
}

func TestDeleteMatchingRule(t *testing.T) {
	f := newRuleFixture(t)
	debt := f.seedDebt(t, "")
	created, err := f.create.Execute(f.ctx, matchingrule.CreateMatchingRuleInput{
		UserID: f.userID, DebtID: debt.ID, Type: "exact", Field: "merchant_name", Value: "Acme",
	})
	require.NoError(t, err)

	err = f.delete.Execute(f.ctx, matchingrule.DeleteMatchingRuleInput{UserID: uuid.New(), RuleID: created.Rule.ID})
	require.ErrorIs(t, err, domainerror.ErrMatchingRuleNotFound)

	require.NoError(t, f.delete.Execute(f.ctx, matchingrule.DeleteMatchingRuleInput{UserID: f.userID, RuleID: created.Rule.ID}))

	err = f.delete.Execute(f.ctx, matchingrule.DeleteMatchingRuleInput{UserID: f.userID, RuleID: created.Rule.ID})
	require.ErrorIs(t, err, domainerror.ErrMatchingRuleNotFound)
}
