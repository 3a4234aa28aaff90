package reconciliation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/debts/internal/application/adapter"
	matchuc "github.com/finance-tracker/debts/internal/application/usecase/debtmatch"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	"github.com/finance-tracker/debts/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
	"github.com/finance-tracker/debts/internal/integration/metrics"
	"github.com/finance-tracker/debts/internal/integration/persistence"
	"github.com/finance-tracker/debts/internal/integration/persistence/testdb"
)

type reconFixture struct {
	ctx          context.Context
	userID       uuid.UUID
	debts        adapter.DebtRepository
	transactions adapter.TransactionRepository
	payments     adapter.DebtPaymentRepository
	loader       *ledger.Loader

	manual    *matchuc.CreateManualMatchUseCase
	balance   *reconciliation.GetBalanceUseCase
	summary   *reconciliation.GetSummaryUseCase
	sync      *reconciliation.SyncBalancesUseCase
	history   *reconciliation.GetHistoryUseCase
	velocity  *reconciliation.GetVelocityUseCase
	potential *reconciliation.FindPotentialPaymentsUseCase
}

func newReconFixture(t *testing.T) *reconFixture {
	t.Helper()
	db := testdb.Open(t)
	cfg := valueobject.DefaultMatchingConfig()

	f := &reconFixture{
		ctx:          context.Background(),
		userID:       uuid.New(),
		debts:        persistence.NewDebtRepository(db),
		transactions: persistence.NewTransactionRepository(db),
		payments:     persistence.NewDebtPaymentRepository(db),
	}
	matches := persistence.NewDebtMatchRepository(db)
	history := persistence.NewPaymentHistoryRepository(db)
	rules := persistence.NewMatchingRuleRepository(db)
	loader := ledger.NewLoader(matches, f.transactions, history, f.payments)
	f.loader = loader
	applier := matchuc.NewPaymentApplier(f.debts, f.transactions, history, loader)

	f.manual = matchuc.NewCreateManualMatchUseCase(matches, f.debts, f.transactions, applier)
	f.balance = reconciliation.NewGetBalanceUseCase(f.debts, loader, cfg)
	f.summary = reconciliation.NewGetSummaryUseCase(f.debts, loader, cfg)
	f.sync = reconciliation.NewSyncBalancesUseCase(f.debts, loader, cfg, metrics.Noop{})
	f.history = reconciliation.NewGetHistoryUseCase(f.debts, history, f.payments)
	f.velocity = reconciliation.NewGetVelocityUseCase(f.debts, loader)
	f.potential = reconciliation.NewFindPotentialPaymentsUseCase(
		f.debts, rules, matches, f.transactions, debtmatch.NewGenerator(debtmatch.NewEvaluator()), cfg,
	)
	return f
}

func (f *reconFixture) seedDebt(t *testing.T, original int64) *entity.Debt {
	t.Helper()
	d := entity.NewDebt(f.userID, "Card", "Acme Bank", decimal.NewFromInt(original), decimal.Zero, decimal.Zero, entity.DebtPriorityHigh)
	require.NoError(t, f.debts.Create(f.ctx, d))
	return d
}

func (f *reconFixture) seedTx(t *testing.T, amount int64, merchant string, date time.Time) *entity.Transaction {
	t.Helper()
	tx := entity.NewTransaction(f.userID, "acc", decimal.NewFromInt(amount), "CARD PAYMENT", date)
	tx.MerchantName = &merchant
	require.NoError(t, f.transactions.CreateBatch(f.ctx, []*entity.Transaction{tx}))
	return tx
}

// seedPaidDebt creates a 1000 debt paid 200 in January and 300 in February 2024.
func (f *reconFixture) seedPaidDebt(t *testing.T) (*entity.Debt, []*entity.Transaction) {
	t.Helper()
	d := f.seedDebt(t, 1000)
	txs := []*entity.Transaction{
		f.seedTx(t, -200, "Acme Bank", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		f.seedTx(t, -300, "Acme Bank", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)),
	}
	for _, tx := range txs {
		_, err := f.manual.Execute(f.ctx, matchuc.CreateManualMatchInput{UserID: f.userID, TransactionID: tx.ID, DebtID: d.ID})
		require.NoError(t, err)
	}
	return d, txs
}

func TestGetBalance_CanonicalAndDrift(t *testing.T) {
	f := newReconFixture(t)
	d, _ := f.seedPaidDebt(t)
	input := reconciliation.DebtBalanceInput{UserID: f.userID, DebtID: d.ID}

	out, err := f.balance.Execute(f.ctx, input)
	require.NoError(t, err)
	require.True(t, out.Balance.CurrentBalance.Equal(decimal.NewFromInt(500)))
	require.True(t, out.Balance.TotalPaid.Equal(decimal.NewFromInt(500)))
	require.True(t, out.Balance.ProgressPercent.Equal(decimal.NewFromInt(50)))
	require.Equal(t, 2, out.Balance.PaymentCount)
	require.False(t, out.HasDrift)

	require.NoError(t, f.debts.UpdateBalance(f.ctx, d.ID, decimal.NewFromInt(900), entity.DebtStatusActive))

	out, err = f.balance.Execute(f.ctx, input)
	require.NoError(t, err)
	require.True(t, out.HasDrift)
	require.True(t, out.Balance.CurrentBalance.Equal(decimal.NewFromInt(500)))
	require.True(t, out.Balance.StoredBalance.Equal(decimal.NewFromInt(900)))

	// Reading never repairs the record.
	stored, err := f.debts.FindByID(f.ctx, d.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(900)))
}

func TestGetBalance_Ownership(t *testing.T) {
	f := newReconFixture(t)
	d := f.seedDebt(t, 100)

	_, err := f.balance.Execute(f.ctx, reconciliation.DebtBalanceInput{UserID: uuid.New(), DebtID: d.ID})
	require.ErrorIs(t, err, domainerror.ErrNotAuthorizedToAccessDebt)

	_, err = f.balance.Execute(f.ctx, reconciliation.DebtBalanceInput{UserID: f.userID, DebtID: uuid.New()})
	require.ErrorIs(t, err, domainerror.ErrDebtNotFound)
}

func TestSyncBalances_Idempotent(t *testing.T) {
	f := newReconFixture(t)
	d, _ := f.seedPaidDebt(t)
	untouched := f.seedDebt(t, 50)
	require.NoError(t, f.debts.UpdateBalance(f.ctx, d.ID, decimal.NewFromInt(1000), entity.DebtStatusActive))

	summary, err := f.summary.Execute(f.ctx, reconciliation.GetSummaryInput{UserID: f.userID})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{d.ID}, summary.DriftedDebts)
	require.True(t, summary.Summary.TotalOriginal.Equal(decimal.NewFromInt(1050)))
	require.True(t, summary.Summary.TotalCurrent.Equal(decimal.NewFromInt(550)))
	require.Equal(t, 2, summary.Summary.ActiveCount)

	first, err := f.sync.Execute(f.ctx, reconciliation.SyncBalancesInput{UserID: f.userID})
	require.NoError(t, err)
	require.Equal(t, 1, first.Updated)
	require.Equal(t, 1, first.Unchanged)

	second, err := f.sync.Execute(f.ctx, reconciliation.SyncBalancesInput{UserID: f.userID})
	require.NoError(t, err)
	require.Zero(t, second.Updated)
	require.Equal(t, 2, second.Unchanged)

	stored, err := f.debts.FindByID(f.ctx, d.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(500)))

	stored, err = f.debts.FindByID(f.ctx, untouched.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(50)))
}

func TestSyncBalances_RepairsStatus(t *testing.T) {
	f := newReconFixture(t)
	d := f.seedDebt(t, 100)
	require.NoError(t, f.debts.UpdateBalance(f.ctx, d.ID, decimal.NewFromInt(100), entity.DebtStatusPaidOff))

	out, err := f.sync.Execute(f.ctx, reconciliation.SyncBalancesInput{UserID: f.userID})
	require.NoError(t, err)
	require.Equal(t, 1, out.Updated)

	stored, err := f.debts.FindByID(f.ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, entity.DebtStatusActive, stored.Status)
}

// failingDebtRepository rejects balance writes for one debt.
type failingDebtRepository struct {
	adapter.DebtRepository
	failID uuid.UUID
}

func (r *failingDebtRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status entity.DebtStatus) error {
	if id == r.failID {
		return errors.New("connection reset")
	}
	return r.DebtRepository.UpdateBalance(ctx, id, balance, status)
}

func TestSyncBalances_ContinuesPastFailedWrite(t *testing.T) {
	f := newReconFixture(t)
	broken := f.seedDebt(t, 100)
	healthy := f.seedDebt(t, 200)
	require.NoError(t, f.debts.UpdateBalance(f.ctx, broken.ID, decimal.NewFromInt(10), entity.DebtStatusActive))
	require.NoError(t, f.debts.UpdateBalance(f.ctx, healthy.ID, decimal.NewFromInt(20), entity.DebtStatusActive))

	repo := &failingDebtRepository{DebtRepository: f.debts, failID: broken.ID}
	sync := reconciliation.NewSyncBalancesUseCase(repo, f.loader, valueobject.DefaultMatchingConfig(), metrics.Noop{})

	out, err := sync.Execute(f.ctx, reconciliation.SyncBalancesInput{UserID: f.userID})
	require.NoError(t, err)
	require.Equal(t, 1, out.Updated)
	require.Equal(t, 1, out.Failed)
	require.Zero(t, out.Unchanged)

	stored, err := f.debts.FindByID(f.ctx, healthy.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(200)))

	stored, err = f.debts.FindByID(f.ctx, broken.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(10)))
}

func TestGetHistory(t *testing.T) {
	f := newReconFixture(t)
	d, txs := f.seedPaidDebt(t)
	require.NoError(t, f.payments.Create(f.ctx, entity.NewDebtPayment(d.ID, decimal.NewFromInt(25), decimal.Zero, time.Now().UTC(), "cash")))

	out, err := f.history.Execute(f.ctx, reconciliation.DebtBalanceInput{UserID: f.userID, DebtID: d.ID})
	require.NoError(t, err)
	require.Len(t, out.History, 2)
	require.Equal(t, txs[1].ID, out.History[0].TransactionID)
	require.Len(t, out.ManualPayments, 1)
}

func TestGetVelocity(t *testing.T) {
	f := newReconFixture(t)
	d, _ := f.seedPaidDebt(t)

	v, err := f.velocity.Execute(f.ctx, reconciliation.DebtBalanceInput{UserID: f.userID, DebtID: d.ID})
	require.NoError(t, err)
	require.Equal(t, 2, v.PaymentCount)
	require.Equal(t, 2, v.MonthsSpanned)
	require.True(t, v.AverageMonthlyPayment.Equal(decimal.NewFromInt(250)))
	require.Equal(t, 2.0, v.EstimatedMonthsToPayoff)
	require.True(t, v.PayoffKnown())
}

func TestGetVelocity_NoPayments(t *testing.T) {
	f := newReconFixture(t)
	d := f.seedDebt(t, 100)

	v, err := f.velocity.Execute(f.ctx, reconciliation.DebtBalanceInput{UserID: f.userID, DebtID: d.ID})
	require.NoError(t, err)
	require.Zero(t, v.PaymentCount)
	require.False(t, v.PayoffKnown())
	require.Nil(t, v.FirstPayment)
}

func TestFindPotentialPayments(t *testing.T) {
	f := newReconFixture(t)
	d, matched := f.seedPaidDebt(t)
	recent := time.Now().UTC().AddDate(0, 0, -2)
	near := f.seedTx(t, -80, "ACME BANK LTD", recent)
	f.seedTx(t, 400, "Acme Bank", recent)

	out, err := f.potential.Execute(f.ctx, reconciliation.FindPotentialPaymentsInput{
		UserID: f.userID,
		DebtID: d.ID,
		Days:   3650,
	})
	require.NoError(t, err)
	require.True(t, out.UsedDefaultRules)
	require.NotEmpty(t, out.Payments)
	require.Equal(t, near.ID, out.Payments[0].Transaction.ID)
	require.Equal(t, 86, out.Payments[0].Confidence)

	for _, p := range out.Payments {
		require.True(t, p.Transaction.Amount.IsNegative())
		for _, tx := range matched {
			require.NotEqual(t, tx.ID, p.Transaction.ID)
		}
	}

	limited, err := f.potential.Execute(f.ctx, reconciliation.FindPotentialPaymentsInput{
		UserID: f.userID,
		DebtID: d.ID,
		Days:   3650,
		Limit:  1,
	})
	require.NoError(t, err)
	require.Len(t, limited.Payments, 1)
}
