package scan_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/debts/internal/application/adapter"
	matchuc "github.com/finance-tracker/debts/internal/application/usecase/debtmatch"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	matchingrule "github.com/finance-tracker/debts/internal/application/usecase/matching_rule"
	"github.com/finance-tracker/debts/internal/application/usecase/scan"
	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
	"github.com/finance-tracker/debts/internal/integration/cache"
	"github.com/finance-tracker/debts/internal/integration/metrics"
	"github.com/finance-tracker/debts/internal/integration/persistence"
	"github.com/finance-tracker/debts/internal/integration/persistence/testdb"
)

type scanFixture struct {
	ctx          context.Context
	userID       uuid.UUID
	debts        adapter.DebtRepository
	rules        adapter.MatchingRuleRepository
	transactions adapter.TransactionRepository
	watermarks   adapter.ScanWatermarkStore
	useCase      *scan.ScanTransactionsUseCase
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()
	db := testdb.Open(t)

	f := &scanFixture{
		ctx:          context.Background(),
		userID:       uuid.New(),
		debts:        persistence.NewDebtRepository(db),
		rules:        persistence.NewMatchingRuleRepository(db),
		transactions: persistence.NewTransactionRepository(db),
		watermarks:   cache.NewMemoryWatermarkStore(),
	}
	matches := persistence.NewDebtMatchRepository(db)
	history := persistence.NewPaymentHistoryRepository(db)
	payments := persistence.NewDebtPaymentRepository(db)

	cfg := valueobject.DefaultMatchingConfig()
	loader := ledger.NewLoader(matches, f.transactions, history, payments)
	applier := matchuc.NewPaymentApplier(f.debts, f.transactions, history, loader)
	recorder := matchuc.NewRecordMatchUseCase(matches, applier, cfg)

	f.useCase = scan.NewScanTransactionsUseCase(
		f.debts,
		f.rules,
		f.transactions,
		matchingrule.NewRuleBootstrapper(f.rules, cfg),
		debtmatch.NewGenerator(debtmatch.NewEvaluator()),
		recorder,
		f.watermarks,
		metrics.Noop{},
		scan.DefaultConfig(),
	)
	return f
}

func (f *scanFixture) seedDebt(t *testing.T, creditor string) *entity.Debt {
	t.Helper()
	debt := entity.NewDebt(f.userID, "Loan", creditor, decimal.NewFromInt(1000), decimal.Zero, decimal.Zero, entity.DebtPriorityMedium)
	require.NoError(t, f.debts.Create(f.ctx, debt))
	return debt
}

func (f *scanFixture) seedTx(t *testing.T, amount int64, merchant string) *entity.Transaction {
	t.Helper()
	tx := entity.NewTransaction(f.userID, "acc", decimal.NewFromInt(amount), "PAYMENT", time.Now().UTC().AddDate(0, 0, -1))
	tx.MerchantName = &merchant
	require.NoError(t, f.transactions.CreateBatch(f.ctx, []*entity.Transaction{tx}))
	return tx
}

func TestScanTransactions_ManualPass(t *testing.T) {
	f := newScanFixture(t)
	debt := f.seedDebt(t, "Acme Bank")
	f.seedTx(t, -250, "Acme Bank")
	f.seedTx(t, -100, "ACME BANK LTD")
	f.seedTx(t, -30, "Tesco Stores")
	f.seedTx(t, 500, "Acme Bank")

	out, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID})
	require.NoError(t, err)
	require.Equal(t, 4, out.Processed)
	require.Equal(t, 2, out.Candidates)
	require.Equal(t, 2, out.Created)
	require.Equal(t, 1, out.AutoConfirmed)
	require.Equal(t, 1, out.Pending)
	require.Zero(t, out.Failed)
	require.Nil(t, out.Watermark)

	rules, err := f.rules.FindByDebt(f.ctx, debt.ID)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	stored, err := f.debts.FindByID(f.ctx, debt.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(750)))

	again, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID})
	require.NoError(t, err)
	require.Equal(t, 2, again.Duplicates)
	require.Zero(t, again.Created)

	rules, err = f.rules.FindByDebt(f.ctx, debt.ID)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	stored, err = f.debts.FindByID(f.ctx, debt.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(750)))
}

func TestScanTransactions_CountWindow(t *testing.T) {
	f := newScanFixture(t)
	f.seedDebt(t, "Acme Bank")
	for i := 0; i < 3; i++ {
		f.seedTx(t, -10, "Acme Bank")
	}

	out, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 2, out.Processed)
}

func TestScanTransactions_InvalidWindow(t *testing.T) {
	f := newScanFixture(t)

	tests := []scan.ScanTransactionsInput{
		{UserID: f.userID, Limit: 10, Days: 5},
		{UserID: f.userID, Limit: -1},
		{UserID: f.userID, Days: -3},
	}
	for _, input := range tests {
		_, err := f.useCase.Execute(f.ctx, input)
		require.ErrorIs(t, err, domainerror.ErrInvalidScanWindow)
	}
}

func TestScanTransactions_NoActiveDebts(t *testing.T) {
	f := newScanFixture(t)
	f.seedTx(t, -250, "Acme Bank")

	out, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID})
	require.NoError(t, err)
	require.Zero(t, out.Processed)
	require.Zero(t, out.Candidates)
}

func TestScanTransactions_AutomaticPassUsesWatermark(t *testing.T) {
	f := newScanFixture(t)
	f.seedDebt(t, "Acme Bank")
	f.seedTx(t, -250, "Acme Bank")
	f.seedTx(t, -30, "Tesco Stores")

	first, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID, Mode: scan.ModeAutomatic})
	require.NoError(t, err)
	require.Equal(t, 2, first.Processed)
	require.NotNil(t, first.Watermark)

	second, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID, Mode: scan.ModeAutomatic})
	require.NoError(t, err)
	require.Zero(t, second.Processed)

	time.Sleep(2 * time.Millisecond)
	f.seedTx(t, -40, "ACME BANK LTD")

	third, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID, Mode: scan.ModeAutomatic})
	require.NoError(t, err)
	require.Equal(t, 1, third.Processed)
	require.Equal(t, 1, third.Pending)

	// Manual passes ignore the watermark.
	manual, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID})
	require.NoError(t, err)
	require.Equal(t, 3, manual.Processed)
	require.Equal(t, 2, manual.Duplicates)
}

func TestScanTransactions_AutomaticPassPagesPastWindow(t *testing.T) {
	f := newScanFixture(t)
	f.seedDebt(t, "Acme Bank")

	// One import larger than the window, several rows sharing an import time.
	importedAt := time.Now().UTC().Truncate(time.Microsecond)
	batch := make([]*entity.Transaction, 0, 5)
	for i := 0; i < 5; i++ {
		tx := entity.NewTransaction(f.userID, "acc", decimal.NewFromInt(-10), "PAYMENT", importedAt.AddDate(0, 0, -1))
		merchant := "Tesco Stores"
		tx.MerchantName = &merchant
		tx.CreatedAt = importedAt.Add(time.Duration(i/3) * time.Microsecond)
		batch = append(batch, tx)
	}
	require.NoError(t, f.transactions.CreateBatch(f.ctx, batch))

	first, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID, Limit: 2, Mode: scan.ModeAutomatic})
	require.NoError(t, err)
	require.Equal(t, 5, first.Processed)
	require.NotNil(t, first.Watermark)
	require.True(t, first.Watermark.Equal(importedAt.Add(time.Microsecond)))

	second, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID, Limit: 2, Mode: scan.ModeAutomatic})
	require.NoError(t, err)
	require.Zero(t, second.Processed)
}

func TestScanTransactions_AutomaticPassStartsAtWatermark(t *testing.T) {
	f := newScanFixture(t)
	f.seedDebt(t, "Acme Bank")
	seen := f.seedTx(t, -10, "Tesco Stores")
	require.NoError(t, f.watermarks.Advance(f.ctx, f.userID, seen.CreatedAt))

	time.Sleep(2 * time.Millisecond)
	for i := 0; i < 3; i++ {
		f.seedTx(t, -10, "Tesco Stores")
	}

	out, err := f.useCase.Execute(f.ctx, scan.ScanTransactionsInput{UserID: f.userID, Limit: 2, Mode: scan.ModeAutomatic})
	require.NoError(t, err)
	require.Equal(t, 3, out.Processed)
}
