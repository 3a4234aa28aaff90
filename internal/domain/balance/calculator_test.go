package balance

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/entity"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newDebt(original int64) *entity.Debt {
	return entity.NewDebt(uuid.New(), "Loan", "Acme Bank", d(original), decimal.Zero, decimal.Zero, entity.DebtPriorityMedium)
}

func newTx(amount int64, date time.Time) *entity.Transaction {
	return entity.NewTransaction(uuid.New(), "acc-1", d(amount), "ACME BANK DD", date)
}

func matchFor(debt *entity.Debt, tx *entity.Transaction, status entity.MatchStatus) *entity.DebtTransactionMatch {
	m := entity.NewManualMatch(tx.ID, debt.ID)
	m.Type = entity.MatchTypeAutomatic
	m.Status = status
	return m
}

func ledgerOf(txs []*entity.Transaction, matches ...*entity.DebtTransactionMatch) Ledger {
	byID := make(map[uuid.UUID]*entity.Transaction, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
	}
	return Ledger{Matches: matches, Transactions: byID}
}

var jan = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

func TestCanonicalBalance(t *testing.T) {
	debt := newDebt(50000)
	paid := newTx(-5000, jan)
	pending := newTx(-7000, jan)
	rejected := newTx(-9000, jan)

	tests := []struct {
		name   string
		ledger Ledger
		want   int64
	}{
		{
			name:   "no payments",
			ledger: Ledger{},
			want:   50000,
		},
		{
			name:   "only confirmed matches count",
			ledger: ledgerOf([]*entity.Transaction{paid, pending, rejected},
				matchFor(debt, paid, entity.MatchStatusConfirmed),
				matchFor(debt, pending, entity.MatchStatusPending),
				matchFor(debt, rejected, entity.MatchStatusRejected),
			),
			want: 45000,
		},
		{
			name: "manual principal counts, interest does not",
			ledger: func() Ledger {
				l := ledgerOf([]*entity.Transaction{paid}, matchFor(debt, paid, entity.MatchStatusConfirmed))
				l.ManualPayments = []*entity.DebtPayment{
					entity.NewDebtPayment(debt.ID, d(2000), d(300), jan, ""),
				}
				return l
			}(),
			want: 43000,
		},
		{
			name: "match and history for the same transaction count once",
			ledger: func() Ledger {
				m := matchFor(debt, paid, entity.MatchStatusConfirmed)
				l := ledgerOf([]*entity.Transaction{paid}, m)
				l.History = []*entity.DebtPaymentHistory{
					BuildPaymentEntry(m, debt, paid, Ledger{}),
				}
				return l
			}(),
			want: 45000,
		},
		{
			name: "history amount used when transaction is unknown",
			ledger: Ledger{
				History: []*entity.DebtPaymentHistory{{
					ID: uuid.New(), DebtID: debt.ID, TransactionID: uuid.New(),
					PaymentDate: jan, Amount: d(3000), BalanceAfter: d(47000),
				}},
			},
			want: 47000,
		},
		{
			name: "other debts are ignored",
			ledger: func() Ledger {
				other := newDebt(1000)
				return ledgerOf([]*entity.Transaction{paid}, matchFor(other, paid, entity.MatchStatusConfirmed))
			}(),
			want: 50000,
		},
		{
			name: "overpayment clamps at zero",
			ledger: func() Ledger {
				big := newTx(-60000, jan)
				return ledgerOf([]*entity.Transaction{big}, matchFor(debt, big, entity.MatchStatusConfirmed))
			}(),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalBalance(debt, tt.ledger)
			if !got.Equal(d(tt.want)) {
				t.Errorf("CanonicalBalance() = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateBalanceInfo(t *testing.T) {
	debt := newDebt(50000)
	tx := newTx(-5000, jan)
	ledger := ledgerOf([]*entity.Transaction{tx}, matchFor(debt, tx, entity.MatchStatusConfirmed))
	ledger.ManualPayments = []*entity.DebtPayment{entity.NewDebtPayment(debt.ID, d(5000), d(250), jan, "extra")}

	info := CalculateBalanceInfo(debt, ledger)

	if !info.CurrentBalance.Equal(d(40000)) {
		t.Errorf("CurrentBalance = %s, want 40000", info.CurrentBalance)
	}
	if !info.AutomaticPaid.Equal(d(5000)) || !info.ManualPaid.Equal(d(5000)) || !info.TotalPaid.Equal(d(10000)) {
		t.Errorf("paid split = %s/%s/%s, want 5000/5000/10000", info.AutomaticPaid, info.ManualPaid, info.TotalPaid)
	}
	if !info.ProgressPercent.Equal(d(20)) {
		t.Errorf("ProgressPercent = %s, want 20", info.ProgressPercent)
	}
	if info.PaymentCount != 2 || info.IsFullyPaid {
		t.Errorf("PaymentCount = %d, IsFullyPaid = %v", info.PaymentCount, info.IsFullyPaid)
	}
}

func TestIsFullyPaid_StaysTrue(t *testing.T) {
	debt := newDebt(5000)
	first := newTx(-5000, jan)
	second := newTx(-100, jan.AddDate(0, 1, 0))

	ledger := ledgerOf([]*entity.Transaction{first, second}, matchFor(debt, first, entity.MatchStatusConfirmed))
	if !CalculateBalanceInfo(debt, ledger).IsFullyPaid {
		t.Fatal("debt should be fully paid after first payment")
	}

	ledger.Matches = append(ledger.Matches, matchFor(debt, second, entity.MatchStatusConfirmed))
	if !CalculateBalanceInfo(debt, ledger).IsFullyPaid {
		t.Error("further payment made a paid off debt unpaid")
	}
}

func TestCalculateDebtSummary(t *testing.T) {
	loan := newDebt(50000)
	card := newDebt(10000)
	loanTx := newTx(-5000, jan)
	cardTx := newTx(-10000, jan)

	ledger := ledgerOf([]*entity.Transaction{loanTx, cardTx},
		matchFor(loan, loanTx, entity.MatchStatusConfirmed),
		matchFor(card, cardTx, entity.MatchStatusConfirmed),
	)
	ledger.ManualPayments = []*entity.DebtPayment{entity.NewDebtPayment(loan.ID, d(1000), decimal.Zero, jan, "")}

	s := CalculateDebtSummary([]*entity.Debt{loan, card}, ledger)

	if !s.TotalOriginal.Equal(d(60000)) || !s.TotalCurrent.Equal(d(44000)) {
		t.Errorf("totals = %s/%s, want 60000/44000", s.TotalOriginal, s.TotalCurrent)
	}
	if !s.TotalPaid.Equal(d(16000)) || !s.AutomaticPaid.Equal(d(15000)) || !s.ManualPaid.Equal(d(1000)) {
		t.Errorf("paid = %s (auto %s, manual %s)", s.TotalPaid, s.AutomaticPaid, s.ManualPaid)
	}
	if s.ActiveCount != 1 || s.PaidOffCount != 1 {
		t.Errorf("counts = %d active / %d paid off, want 1/1", s.ActiveCount, s.PaidOffCount)
	}
	if !s.ProgressPercent.Equal(decimal.RequireFromString("26.67")) {
		t.Errorf("ProgressPercent = %s, want 26.67", s.ProgressPercent)
	}
	if len(s.Debts) != 2 {
		t.Errorf("len(Debts) = %d, want 2", len(s.Debts))
	}
}

func TestCalculateDebtSummary_Empty(t *testing.T) {
	s := CalculateDebtSummary(nil, Ledger{})
	if !s.ProgressPercent.IsZero() || !s.TotalOriginal.IsZero() {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestShouldUpdateDebtBalance(t *testing.T) {
	cfg := valueobject.DefaultMatchingConfig()
	debt := newDebt(100)
	tx := newTx(-100, jan)
	ledger := ledgerOf([]*entity.Transaction{tx}, matchFor(debt, tx, entity.MatchStatusConfirmed))

	// Stored balance still 100 while history says it is paid off.
	info := CalculateBalanceInfo(debt, ledger)
	if !info.CurrentBalance.IsZero() {
		t.Fatalf("canonical = %s, want 0", info.CurrentBalance)
	}
	if !ShouldUpdateDebtBalance(debt, info, cfg) {
		t.Error("ShouldUpdateDebtBalance = false, want true")
	}

	debt.CurrentBalance = decimal.RequireFromString("0.005")
	if ShouldUpdateDebtBalance(debt, info, cfg) {
		t.Error("rounding difference reported as drift")
	}
	if !NeedsSync(debt, info, cfg) {
		t.Error("active status with zero canonical balance should need sync")
	}

	debt.Status = entity.DebtStatusPaidOff
	if NeedsSync(debt, info, cfg) {
		t.Error("consistent debt reported as needing sync")
	}
}

func TestBuildPaymentEntry(t *testing.T) {
	debt := newDebt(50000)
	tx := newTx(-5000, jan)
	match := matchFor(debt, tx, entity.MatchStatusConfirmed)

	entry := BuildPaymentEntry(match, debt, tx, Ledger{})

	if !entry.Amount.Equal(d(5000)) {
		t.Errorf("Amount = %s, want 5000", entry.Amount)
	}
	if !entry.BalanceAfter.Equal(d(45000)) {
		t.Errorf("BalanceAfter = %s, want 45000", entry.BalanceAfter)
	}
	if entry.TransactionID != tx.ID || entry.DebtID != debt.ID || *entry.MatchID != match.ID {
		t.Errorf("entry provenance mismatch: %+v", entry)
	}
	if !entry.PaymentDate.Equal(jan) {
		t.Errorf("PaymentDate = %s, want %s", entry.PaymentDate, jan)
	}

	big := newTx(-70000, jan)
	if got := BuildPaymentEntry(match, debt, big, Ledger{}); !got.BalanceAfter.IsZero() {
		t.Errorf("overshoot BalanceAfter = %s, want 0", got.BalanceAfter)
	}
}

func TestCalculatePaymentVelocity(t *testing.T) {
	t.Run("payments over three months", func(t *testing.T) {
		debt := newDebt(50000)
		a := newTx(-5000, jan)
		b := newTx(-4000, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC))
		c := newTx(-3000, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
		ledger := ledgerOf([]*entity.Transaction{a, b, c},
			matchFor(debt, a, entity.MatchStatusConfirmed),
			matchFor(debt, b, entity.MatchStatusConfirmed),
			matchFor(debt, c, entity.MatchStatusConfirmed),
		)

		v := CalculatePaymentVelocity(debt, ledger)

		if v.PaymentCount != 3 || v.MonthsSpanned != 3 {
			t.Errorf("count/months = %d/%d, want 3/3", v.PaymentCount, v.MonthsSpanned)
		}
		if !v.AverageMonthlyPayment.Equal(d(4000)) {
			t.Errorf("AverageMonthlyPayment = %s, want 4000", v.AverageMonthlyPayment)
		}
		if v.PaymentsPerMonth != 1 {
			t.Errorf("PaymentsPerMonth = %v, want 1", v.PaymentsPerMonth)
		}
		if !v.RemainingBalance.Equal(d(38000)) {
			t.Errorf("RemainingBalance = %s, want 38000", v.RemainingBalance)
		}
		if v.EstimatedMonthsToPayoff != 9.5 {
			t.Errorf("EstimatedMonthsToPayoff = %v, want 9.5", v.EstimatedMonthsToPayoff)
		}
		if !v.FirstPayment.Equal(jan) {
			t.Errorf("FirstPayment = %v, want %v", v.FirstPayment, jan)
		}
	})

	t.Run("manual payments lower the balance but not the pace", func(t *testing.T) {
		debt := newDebt(50000)
		a := newTx(-5000, jan)
		b := newTx(-4000, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC))
		ledger := ledgerOf([]*entity.Transaction{a, b},
			matchFor(debt, a, entity.MatchStatusConfirmed),
			matchFor(debt, b, entity.MatchStatusConfirmed),
		)
		ledger.ManualPayments = []*entity.DebtPayment{
			entity.NewDebtPayment(debt.ID, d(3000), d(100), time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), ""),
		}

		v := CalculatePaymentVelocity(debt, ledger)

		if v.PaymentCount != 2 || v.MonthsSpanned != 3 {
			t.Errorf("count/months = %d/%d, want 2/3", v.PaymentCount, v.MonthsSpanned)
		}
		if !v.AverageMonthlyPayment.Equal(d(3000)) {
			t.Errorf("AverageMonthlyPayment = %s, want 3000", v.AverageMonthlyPayment)
		}
		if !v.RemainingBalance.Equal(d(38000)) {
			t.Errorf("RemainingBalance = %s, want 38000", v.RemainingBalance)
		}
		if v.EstimatedMonthsToPayoff != 12.7 {
			t.Errorf("EstimatedMonthsToPayoff = %v, want 12.7", v.EstimatedMonthsToPayoff)
		}
		if !v.LastPayment.Equal(b.TransactionDate) {
			t.Errorf("LastPayment = %v, want %v", v.LastPayment, b.TransactionDate)
		}
	})

	t.Run("no payments means infinite payoff", func(t *testing.T) {
		v := CalculatePaymentVelocity(newDebt(50000), Ledger{})
		if !math.IsInf(v.EstimatedMonthsToPayoff, 1) || v.PayoffKnown() {
			t.Errorf("EstimatedMonthsToPayoff = %v, want +Inf", v.EstimatedMonthsToPayoff)
		}
		if !v.AverageMonthlyPayment.IsZero() || v.MonthsSpanned != 0 {
			t.Errorf("unexpected velocity %+v", v)
		}
	})

	t.Run("paid off debt needs no more months", func(t *testing.T) {
		debt := newDebt(5000)
		tx := newTx(-5000, jan)
		v := CalculatePaymentVelocity(debt, ledgerOf([]*entity.Transaction{tx}, matchFor(debt, tx, entity.MatchStatusConfirmed)))
		if v.EstimatedMonthsToPayoff != 0 {
			t.Errorf("EstimatedMonthsToPayoff = %v, want 0", v.EstimatedMonthsToPayoff)
		}
	})
}

func TestFindPotentialPayments(t *testing.T) {
	debt := newDebt(50000)
	rule := entity.NewMatchingRule(debt.ID, entity.RuleTypeFuzzy, entity.RuleFieldDescription, "Acme Bank", 95)

	near := newTx(-5000, jan)
	near.Description = "ACME BANK LTD"
	exact := newTx(-2000, jan)
	exact.Description = "acme bank"
	unrelated := newTx(-100, jan)
	unrelated.Description = "zzzzzzzz"
	incoming := newTx(5000, jan)
	incoming.Description = "acme bank"
	alreadyMatched := newTx(-5000, jan)
	alreadyMatched.Description = "acme bank"

	got := FindPotentialPayments(
		debt,
		[]*entity.Transaction{near, exact, unrelated, incoming, alreadyMatched},
		[]*entity.DebtTransactionMatch{matchFor(debt, alreadyMatched, entity.MatchStatusRejected)},
		[]*entity.MatchingRule{rule},
		debtmatch.NewGenerator(debtmatch.NewEvaluator()),
	)

	if len(got) != 2 {
		t.Fatalf("len(potential) = %d, want 2: %+v", len(got), got)
	}
	if got[0].Transaction.ID != exact.ID || got[0].Confidence != 100 {
		t.Errorf("first = %s (%d), want exact match with 100", got[0].Transaction.Description, got[0].Confidence)
	}
	if got[1].Transaction.ID != near.ID || got[1].Confidence != 86 {
		t.Errorf("second = %s (%d), want near match below threshold with 86", got[1].Transaction.Description, got[1].Confidence)
	}
}
