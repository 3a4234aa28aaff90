package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/debts/internal/domain/balance"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// CreateDebtRequest represents the request body for debt creation.
type CreateDebtRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	Creditor       string          `json:"creditor" binding:"max=255"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	Priority       string          `json:"priority,omitempty" binding:"omitempty,oneof=high medium low"`
}

// RecordPaymentRequest represents the request body for a manual debt payment.
type RecordPaymentRequest struct {
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	PaymentDate *string         `json:"payment_date,omitempty"`
	Notes       string          `json:"notes,omitempty" binding:"max=1000"`
}

// DebtResponse represents a single debt in API responses.
type DebtResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Creditor       string    `json:"creditor"`
	OriginalAmount string    `json:"original_amount"`
	CurrentBalance string    `json:"current_balance"`
	InterestRate   string    `json:"interest_rate"`
	MinimumPayment string    `json:"minimum_payment"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateDebtResponse represents the response for debt creation.
type CreateDebtResponse struct {
	Debt         DebtResponse `json:"debt"`
	RulesCreated bool         `json:"rules_created"`
}

// DebtListResponse represents the response for listing debts.
type DebtListResponse struct {
	Debts []DebtResponse `json:"debts"`
}

// BalanceResponse represents the canonical balance of a debt.
type BalanceResponse struct {
	DebtID          string `json:"debt_id"`
	OriginalAmount  string `json:"original_amount"`
	CurrentBalance  string `json:"current_balance"`
	StoredBalance   string `json:"stored_balance"`
	TotalPaid       string `json:"total_paid"`
	AutomaticPaid   string `json:"automatic_paid"`
	ManualPaid      string `json:"manual_paid"`
	ProgressPercent string `json:"progress_percent"`
	PaymentCount    int    `json:"payment_count"`
	IsFullyPaid     bool   `json:"is_fully_paid"`
	HasDrift        bool   `json:"has_drift"`
}

// DebtSummaryResponse represents the aggregated balances of a user's debts.
type DebtSummaryResponse struct {
	TotalOriginal   string            `json:"total_original"`
	TotalCurrent    string            `json:"total_current"`
	TotalPaid       string            `json:"total_paid"`
	AutomaticPaid   string            `json:"automatic_paid"`
	ManualPaid      string            `json:"manual_paid"`
	ProgressPercent string            `json:"progress_percent"`
	ActiveCount     int               `json:"active_count"`
	PaidOffCount    int               `json:"paid_off_count"`
	Debts           []BalanceResponse `json:"debts"`
}

// SyncBalancesResponse represents the outcome of a balance sync.
type SyncBalancesResponse struct {
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// PaymentHistoryResponse represents one automatic payment of a debt.
type PaymentHistoryResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	MatchID       *string   `json:"match_id,omitempty"`
	PaymentDate   string    `json:"payment_date"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// ManualPaymentResponse represents one manual payment of a debt.
type ManualPaymentResponse struct {
	ID          string    `json:"id"`
	Principal   string    `json:"principal"`
	Interest    string    `json:"interest"`
	Amount      string    `json:"amount"`
	PaymentDate string    `json:"payment_date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DebtHistoryResponse represents the payment records of a debt.
type DebtHistoryResponse struct {
	History        []PaymentHistoryResponse `json:"history"`
	ManualPayments []ManualPaymentResponse  `json:"manual_payments"`
}

// RecordPaymentResponse represents the response for a manual payment.
type RecordPaymentResponse struct {
	Payment ManualPaymentResponse `json:"payment"`
	Balance BalanceResponse       `json:"balance"`
}

// VelocityResponse represents how fast a debt is being repaid.
// EstimatedMonthsToPayoff is null when nothing is being paid.
type VelocityResponse struct {
	AverageMonthlyPayment   string   `json:"average_monthly_payment"`
	PaymentCount            int      `json:"payment_count"`
	MonthsSpanned           int      `json:"months_spanned"`
	PaymentsPerMonth        float64  `json:"payments_per_month"`
	RemainingBalance        string   `json:"remaining_balance"`
	EstimatedMonthsToPayoff *float64 `json:"estimated_months_to_payoff"`
	FirstPayment            *string  `json:"first_payment,omitempty"`
	LastPayment             *string  `json:"last_payment,omitempty"`
}

// PotentialPaymentResponse represents an unmatched transaction that may pay a debt.
type PotentialPaymentResponse struct {
	Transaction  TransactionResponse `json:"transaction"`
	RuleID       *string             `json:"rule_id,omitempty"`
	Confidence   int                 `json:"confidence"`
	MatchedField string              `json:"matched_field"`
	MatchedValue string              `json:"matched_value"`
}

// PotentialPaymentsResponse represents the suggestions for a debt.
type PotentialPaymentsResponse struct {
	Payments         []PotentialPaymentResponse `json:"payments"`
	UsedDefaultRules bool                       `json:"used_default_rules"`
}

// ToDebtResponse converts a domain Debt entity to a DebtResponse DTO.
func ToDebtResponse(d *entity.Debt) DebtResponse {
	return DebtResponse{
		ID:             d.ID.String(),
		Name:           d.Name,
		Creditor:       d.Creditor,
		OriginalAmount: d.OriginalAmount.StringFixed(2),
		CurrentBalance: d.CurrentBalance.StringFixed(2),
		InterestRate:   d.InterestRate.String(),
		MinimumPayment: d.MinimumPayment.StringFixed(2),
		Status:         string(d.Status),
		Priority:       string(d.Priority),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ToDebtListResponse converts a slice of debts to a DebtListResponse DTO.
func ToDebtListResponse(debts []*entity.Debt) DebtListResponse {
	responses := make([]DebtResponse, len(debts))
	for i, d := range debts {
		responses[i] = ToDebtResponse(d)
	}
	return DebtListResponse{Debts: responses}
}

// ToBalanceResponse converts canonical balance information to its response DTO.
func ToBalanceResponse(info balance.BalanceInfo, hasDrift bool) BalanceResponse {
	return BalanceResponse{
		DebtID:          info.DebtID.String(),
		OriginalAmount:  info.OriginalAmount.StringFixed(2),
		CurrentBalance:  info.CurrentBalance.StringFixed(2),
		StoredBalance:   info.StoredBalance.StringFixed(2),
		TotalPaid:       info.TotalPaid.StringFixed(2),
		AutomaticPaid:   info.AutomaticPaid.StringFixed(2),
		ManualPaid:      info.ManualPaid.StringFixed(2),
		ProgressPercent: info.ProgressPercent.StringFixed(2),
		PaymentCount:    info.PaymentCount,
		IsFullyPaid:     info.IsFullyPaid,
		HasDrift:        hasDrift,
	}
}

// ToDebtSummaryResponse converts the summary output to its response DTO.
func ToDebtSummaryResponse(output *reconciliation.GetSummaryOutput) DebtSummaryResponse {
	drifted := make(map[string]bool, len(output.DriftedDebts))
	for _, id := range output.DriftedDebts {
		drifted[id.String()] = true
	}

	s := output.Summary
	debts := make([]BalanceResponse, len(s.Debts))
	for i, info := range s.Debts {
		debts[i] = ToBalanceResponse(info, drifted[info.DebtID.String()])
	}

	return DebtSummaryResponse{
		TotalOriginal:   s.TotalOriginal.StringFixed(2),
		TotalCurrent:    s.TotalCurrent.StringFixed(2),
		TotalPaid:       s.TotalPaid.StringFixed(2),
		AutomaticPaid:   s.AutomaticPaid.StringFixed(2),
		ManualPaid:      s.ManualPaid.StringFixed(2),
		ProgressPercent: s.ProgressPercent.StringFixed(2),
		ActiveCount:     s.ActiveCount,
		PaidOffCount:    s.PaidOffCount,
		Debts:           debts,
	}
}

// ToManualPaymentResponse converts a domain DebtPayment entity to its response DTO.
func ToManualPaymentResponse(p *entity.DebtPayment) ManualPaymentResponse {
	return ManualPaymentResponse{
		ID:          p.ID.String(),
		Principal:   p.Principal.StringFixed(2),
		Interest:    p.Interest.StringFixed(2),
		Amount:      p.Amount.StringFixed(2),
		PaymentDate: formatDate(p.PaymentDate),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// ToDebtHistoryResponse converts the history output to its response DTO.
func ToDebtHistoryResponse(output *reconciliation.GetHistoryOutput) DebtHistoryResponse {
	history := make([]PaymentHistoryResponse, len(output.History))
	for i, h := range output.History {
		history[i] = PaymentHistoryResponse{
			ID:            h.ID.String(),
			TransactionID: h.TransactionID.String(),
			PaymentDate:   formatDate(h.PaymentDate),
			Amount:        h.Amount.StringFixed(2),
			BalanceAfter:  h.BalanceAfter.StringFixed(2),
			CreatedAt:     h.CreatedAt,
		}
		if h.MatchID != nil {
			matchID := h.MatchID.String()
			history[i].MatchID = &matchID
		}
	}

	manual := make([]ManualPaymentResponse, len(output.ManualPayments))
	for i, p := range output.ManualPayments {
		manual[i] = ToManualPaymentResponse(p)
	}

	return DebtHistoryResponse{History: history, ManualPayments: manual}
}

// ToVelocityResponse converts a payment velocity to its response DTO.
func ToVelocityResponse(v *balance.PaymentVelocity) VelocityResponse {
	response := VelocityResponse{
		AverageMonthlyPayment: v.AverageMonthlyPayment.StringFixed(2),
		PaymentCount:          v.PaymentCount,
		MonthsSpanned:         v.MonthsSpanned,
		PaymentsPerMonth:      v.PaymentsPerMonth,
		RemainingBalance:      v.RemainingBalance.StringFixed(2),
	}
	if v.PayoffKnown() {
		months := v.EstimatedMonthsToPayoff
		response.EstimatedMonthsToPayoff = &months
	}
	if v.FirstPayment != nil {
		first := formatDate(*v.FirstPayment)
		response.FirstPayment = &first
	}
	if v.LastPayment != nil {
		last := formatDate(*v.LastPayment)
		response.LastPayment = &last
	}
	return response
}

// ToPotentialPaymentsResponse converts payment suggestions to their response DTO.
func ToPotentialPaymentsResponse(output *reconciliation.FindPotentialPaymentsOutput) PotentialPaymentsResponse {
	payments := make([]PotentialPaymentResponse, len(output.Payments))
	for i, p := range output.Payments {
		payments[i] = PotentialPaymentResponse{
			Transaction:  ToTransactionResponse(p.Transaction),
			Confidence:   p.Confidence,
			MatchedField: string(p.MatchedField),
			MatchedValue: p.MatchedValue,
		}
		if p.RuleID != nil {
			ruleID := p.RuleID.String()
			payments[i].RuleID = &ruleID
		}
	}
	return PotentialPaymentsResponse{Payments: payments, UsedDefaultRules: output.UsedDefaultRules}
}
