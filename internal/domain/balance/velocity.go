package balance

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// PaymentVelocity describes how fast a debt is being repaid.
type PaymentVelocity struct {
	AverageMonthlyPayment decimal.Decimal
	PaymentCount          int
	MonthsSpanned         int
	PaymentsPerMonth      float64
	RemainingBalance      decimal.Decimal
	// EstimatedMonthsToPayoff is +Inf when nothing is being paid, 0 when already paid off.
	EstimatedMonthsToPayoff float64
	FirstPayment            *time.Time
	LastPayment             *time.Time
}

// PayoffKnown reports whether the payoff estimate is finite.
func (v PaymentVelocity) PayoffKnown() bool {
	return !math.IsInf(v.EstimatedMonthsToPayoff, 0)
}

// CalculatePaymentVelocity averages the confirmed transaction payments over the
// calendar months between the first and last one, both inclusive. Manual
// payments lower the remaining balance but do not count towards the pace.
func CalculatePaymentVelocity(debt *entity.Debt, ledger Ledger) PaymentVelocity {
	payments := confirmedPayments(ledger.Payments(debt.ID))
	remaining := CanonicalBalance(debt, ledger)

	v := PaymentVelocity{
		AverageMonthlyPayment: decimal.Zero,
		PaymentCount:          len(payments),
		RemainingBalance:      remaining,
	}

	if len(payments) > 0 {
		sort.Slice(payments, func(i, j int) bool {
			return payments[i].Date.Before(payments[j].Date)
		})
		first := payments[0].Date
		last := payments[len(payments)-1].Date
		v.FirstPayment = &first
		v.LastPayment = &last

		total := decimal.Zero
		for _, p := range payments {
			total = total.Add(p.Amount)
		}

		v.MonthsSpanned = monthsBetween(first, last)
		v.AverageMonthlyPayment = total.Div(decimal.NewFromInt(int64(v.MonthsSpanned))).Round(2)
		v.PaymentsPerMonth = float64(len(payments)) / float64(v.MonthsSpanned)
	}

	switch {
	case !remaining.IsPositive():
		v.EstimatedMonthsToPayoff = 0
	case !v.AverageMonthlyPayment.IsPositive():
		v.EstimatedMonthsToPayoff = math.Inf(1)
	default:
		months, _ := remaining.Div(v.AverageMonthlyPayment).Round(1).Float64()
		v.EstimatedMonthsToPayoff = months
	}

	return v
}

func confirmedPayments(payments []Payment) []Payment {
	confirmed := payments[:0]
	for _, p := range payments {
		if !p.Manual {
			confirmed = append(confirmed, p)
		}
	}
	return confirmed
}

// monthsBetween counts calendar months from a to b inclusive, at least one.
func monthsBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
