package balance

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// BuildPaymentEntry converts a confirmed match into a payment history entry.
//
// ledger must not yet contain the match's own payment. The balance after payment
// is the canonical balance before it minus the transaction's absolute amount,
// clamped at zero; any overshoot is dropped.
func BuildPaymentEntry(
	match *entity.DebtTransactionMatch,
	debt *entity.Debt,
	tx *entity.Transaction,
	ledger Ledger,
) *entity.DebtPaymentHistory {
	amount := tx.PaymentAmount()
	before := CanonicalBalance(debt, ledger)
	matchID := match.ID

	paymentDate := tx.TransactionDate
	if paymentDate.IsZero() {
		paymentDate = tx.CreatedAt
	}

	return &entity.DebtPaymentHistory{
		ID:            uuid.New(),
		DebtID:        debt.ID,
		TransactionID: tx.ID,
		MatchID:       &matchID,
		PaymentDate:   paymentDate,
		Amount:        amount,
		BalanceAfter:  clampZero(before.Sub(amount)),
		CreatedAt:     time.Now().UTC(),
	}
}
