// Package balance derives debt balances from payment history rather than the stored balance field.
package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/entity"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// Ledger holds the payment records balances are computed from.
// It may span several debts; every calculation filters by debt ID.
type Ledger struct {
	Matches        []*entity.DebtTransactionMatch
	Transactions   map[uuid.UUID]*entity.Transaction
	History        []*entity.DebtPaymentHistory
	ManualPayments []*entity.DebtPayment
}

// Payment is a single balance-reducing event for a debt.
type Payment struct {
	DebtID        uuid.UUID
	TransactionID *uuid.UUID // Nil for manual payments
	Date          time.Time
	Amount        decimal.Decimal
	Manual        bool
}

// BalanceInfo is the canonical view of one debt.
type BalanceInfo struct {
	DebtID          uuid.UUID
	OriginalAmount  decimal.Decimal
	CurrentBalance  decimal.Decimal // Canonical
	StoredBalance   decimal.Decimal
	TotalPaid       decimal.Decimal
	AutomaticPaid   decimal.Decimal
	ManualPaid      decimal.Decimal
	ProgressPercent decimal.Decimal
	PaymentCount    int
	IsFullyPaid     bool
}

// DebtSummary aggregates balance information across debts.
type DebtSummary struct {
	TotalOriginal   decimal.Decimal
	TotalCurrent    decimal.Decimal
	TotalPaid       decimal.Decimal
	AutomaticPaid   decimal.Decimal
	ManualPaid      decimal.Decimal
	ActiveCount     int
	PaidOffCount    int
	ProgressPercent decimal.Decimal
	Debts           []BalanceInfo
}

// Payments returns every payment recorded against the debt, automatic first.
//
// An automatic payment comes from a confirmed match or a payment history entry;
// each transaction counts once per debt. Its amount is the transaction's absolute
// amount, falling back to the history entry when the transaction is unknown.
// Manual payments contribute their principal only.
func (l Ledger) Payments(debtID uuid.UUID) []Payment {
	historyByTx := make(map[uuid.UUID]*entity.DebtPaymentHistory)
	for _, h := range l.History {
		if h == nil || h.DebtID != debtID {
			continue
		}
		if _, seen := historyByTx[h.TransactionID]; !seen {
			historyByTx[h.TransactionID] = h
		}
	}

	seen := make(map[uuid.UUID]struct{})
	var payments []Payment

	addAutomatic := func(txID uuid.UUID) {
		if _, ok := seen[txID]; ok {
			return
		}

		var p Payment
		if tx, ok := l.Transactions[txID]; ok && tx != nil {
			p = Payment{Date: tx.TransactionDate, Amount: tx.PaymentAmount()}
		} else if h, ok := historyByTx[txID]; ok {
			p = Payment{Date: h.PaymentDate, Amount: h.Amount.Abs()}
		} else {
			return
		}

		seen[txID] = struct{}{}
		id := txID
		p.DebtID = debtID
		p.TransactionID = &id
		payments = append(payments, p)
	}

	for _, m := range l.Matches {
		if m == nil || m.DebtID != debtID || !m.IsConfirmed() {
			continue
		}
		addAutomatic(m.TransactionID)
	}
	for _, h := range l.History {
		if h == nil || h.DebtID != debtID {
			continue
		}
		addAutomatic(h.TransactionID)
	}

	for _, mp := range l.ManualPayments {
		if mp == nil || mp.DebtID != debtID {
			continue
		}
		payments = append(payments, Payment{
			DebtID: debtID,
			Date:   mp.PaymentDate,
			Amount: mp.Principal.Abs(),
			Manual: true,
		})
	}

	return payments
}

// Without returns a copy of the ledger that ignores the given transaction for the debt.
func (l Ledger) Without(debtID, transactionID uuid.UUID) Ledger {
	out := Ledger{
		Transactions:   l.Transactions,
		ManualPayments: l.ManualPayments,
	}
	for _, m := range l.Matches {
		if m != nil && m.DebtID == debtID && m.TransactionID == transactionID {
			continue
		}
		out.Matches = append(out.Matches, m)
	}
	for _, h := range l.History {
		if h != nil && h.DebtID == debtID && h.TransactionID == transactionID {
			continue
		}
		out.History = append(out.History, h)
	}
	return out
}

// CanonicalBalance returns originalAmount minus every automatic and manual
// payment, never below zero.
func CanonicalBalance(debt *entity.Debt, ledger Ledger) decimal.Decimal {
	automatic, manual, _ := paidTotals(debt.ID, ledger)
	return clampZero(debt.OriginalAmount.Sub(automatic).Sub(manual))
}

// CalculateBalanceInfo derives the canonical balance information of a debt.
func CalculateBalanceInfo(debt *entity.Debt, ledger Ledger) BalanceInfo {
	automatic, manual, count := paidTotals(debt.ID, ledger)
	current := clampZero(debt.OriginalAmount.Sub(automatic).Sub(manual))

	progress := decimal.Zero
	if debt.OriginalAmount.IsPositive() {
		progress = debt.OriginalAmount.Sub(current).Div(debt.OriginalAmount).Mul(hundred).Round(2)
	}

	return BalanceInfo{
		DebtID:          debt.ID,
		OriginalAmount:  debt.OriginalAmount,
		CurrentBalance:  current,
		StoredBalance:   debt.CurrentBalance,
		TotalPaid:       automatic.Add(manual),
		AutomaticPaid:   automatic,
		ManualPaid:      manual,
		ProgressPercent: progress,
		PaymentCount:    count,
		IsFullyPaid:     current.LessThanOrEqual(decimal.Zero),
	}
}

// CalculateDebtSummary aggregates canonical balances across debts.
// Progress is totalPaid / totalOriginal * 100, or zero without any original debt.
func CalculateDebtSummary(debts []*entity.Debt, ledger Ledger) DebtSummary {
	summary := DebtSummary{
		TotalOriginal:   decimal.Zero,
		TotalCurrent:    decimal.Zero,
		TotalPaid:       decimal.Zero,
		AutomaticPaid:   decimal.Zero,
		ManualPaid:      decimal.Zero,
		ProgressPercent: decimal.Zero,
	}

	for _, debt := range debts {
		if debt == nil {
			continue
		}
		info := CalculateBalanceInfo(debt, ledger)

		summary.TotalOriginal = summary.TotalOriginal.Add(info.OriginalAmount)
		summary.TotalCurrent = summary.TotalCurrent.Add(info.CurrentBalance)
		summary.TotalPaid = summary.TotalPaid.Add(info.TotalPaid)
		summary.AutomaticPaid = summary.AutomaticPaid.Add(info.AutomaticPaid)
		summary.ManualPaid = summary.ManualPaid.Add(info.ManualPaid)

		if info.IsFullyPaid {
			summary.PaidOffCount++
		} else {
			summary.ActiveCount++
		}
		summary.Debts = append(summary.Debts, info)
	}

	if summary.TotalOriginal.IsPositive() {
		summary.ProgressPercent = summary.TotalPaid.Div(summary.TotalOriginal).Mul(hundred).Round(2)
	}
	return summary
}

// ShouldUpdateDebtBalance reports whether the stored balance drifts from the
// canonical one beyond the configured tolerance.
func ShouldUpdateDebtBalance(debt *entity.Debt, info BalanceInfo, cfg valueobject.MatchingConfig) bool {
	return cfg.HasDrift(debt.CurrentBalance, info.CurrentBalance)
}

// NeedsSync reports whether a debt record disagrees with its canonical state,
// either by balance drift or by a status that does not fit the canonical balance.
func NeedsSync(debt *entity.Debt, info BalanceInfo, cfg valueobject.MatchingConfig) bool {
	return ShouldUpdateDebtBalance(debt, info, cfg) || debt.Status != entity.StatusForBalance(info.CurrentBalance)
}

func paidTotals(debtID uuid.UUID, ledger Ledger) (automatic, manual decimal.Decimal, count int) {
	automatic = decimal.Zero
	manual = decimal.Zero
	for _, p := range ledger.Payments(debtID) {
		if p.Manual {
			manual = manual.Add(p.Amount)
		} else {
			automatic = automatic.Add(p.Amount)
		}
		count++
	}
	return automatic, manual, count
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
