package dto

import (
	"time"

	matchuc "github.com/finance-tracker/debts/internal/application/usecase/debtmatch"
	"github.com/finance-tracker/debts/internal/application/usecase/scan"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// CreateManualMatchRequest represents the request body for a manual match.
type CreateManualMatchRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
	DebtID        string `json:"debt_id" binding:"required,uuid"`
}

// ScanRequest represents the request body for a manual scan. Send at most one of the fields.
type ScanRequest struct {
	Limit *int `json:"limit,omitempty"`
	Days  *int `json:"days,omitempty"`
}

// MatchResponse represents a single debt/transaction match in API responses.
type MatchResponse struct {
	ID            string     `json:"id"`
	TransactionID string     `json:"transaction_id"`
	DebtID        string     `json:"debt_id"`
	RuleID        *string    `json:"rule_id,omitempty"`
	Confidence    int        `json:"confidence"`
	Status        string     `json:"status"`
	Type          string     `json:"type"`
	MatchedField  string     `json:"matched_field,omitempty"`
	MatchedValue  string     `json:"matched_value,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ReviewMatchResponse represents the outcome of confirming or rejecting a match.
type ReviewMatchResponse struct {
	Match           MatchResponse `json:"match"`
	AlreadyReviewed bool          `json:"already_reviewed"`
	PaymentApplied  bool          `json:"payment_applied"`
}

// PendingMatchResponse pairs a pending match with its transaction.
type PendingMatchResponse struct {
	Match       MatchResponse        `json:"match"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// PendingMatchesResponse represents the pending matches of a debt.
type PendingMatchesResponse struct {
	Matches []PendingMatchResponse `json:"matches"`
}

// ScanResponse represents the outcome of a scan pass.
type ScanResponse struct {
	Processed     int `json:"processed"`
	Candidates    int `json:"candidates"`
	Created       int `json:"created"`
	AutoConfirmed int `json:"auto_confirmed"`
	Pending       int `json:"pending"`
	Duplicates    int `json:"duplicates"`
	Failed        int `json:"failed"`
}

// ToMatchResponse converts a domain match to its response DTO.
func ToMatchResponse(m *entity.DebtTransactionMatch) MatchResponse {
	response := MatchResponse{
		ID:            m.ID.String(),
		TransactionID: m.TransactionID.String(),
		DebtID:        m.DebtID.String(),
		Confidence:    m.Confidence,
		Status:        string(m.Status),
		Type:          string(m.Type),
		MatchedField:  m.MatchedField,
		MatchedValue:  m.MatchedValue,
		ReviewedAt:    m.ReviewedAt,
		CreatedAt:     m.CreatedAt,
	}
	if m.RuleID != nil {
		ruleID := m.RuleID.String()
		response.RuleID = &ruleID
	}
	return response
}

// ToReviewMatchResponse converts a review output to its response DTO.
func ToReviewMatchResponse(output *matchuc.ReviewMatchOutput) ReviewMatchResponse {
	return ReviewMatchResponse{
		Match:           ToMatchResponse(output.Match),
		AlreadyReviewed: output.AlreadyReviewed,
		PaymentApplied:  output.Payment != nil,
	}
}

// ToPendingMatchesResponse converts the pending list output to its response DTO.
func ToPendingMatchesResponse(output *matchuc.ListPendingMatchesOutput) PendingMatchesResponse {
	matches := make([]PendingMatchResponse, len(output.Matches))
	for i, pm := range output.Matches {
		matches[i] = PendingMatchResponse{Match: ToMatchResponse(pm.Match)}
		if pm.Transaction != nil {
			tx := ToTransactionResponse(pm.Transaction)
			matches[i].Transaction = &tx
		}
	}
	return PendingMatchesResponse{Matches: matches}
}

// ToScanResponse converts a scan output to its response DTO.
func ToScanResponse(output *scan.ScanTransactionsOutput) ScanResponse {
	return ScanResponse{
		Processed:     output.Processed,
		Candidates:    output.Candidates,
		Created:       output.Created,
		AutoConfirmed: output.AutoConfirmed,
		Pending:       output.Pending,
		Duplicates:    output.Duplicates,
		Failed:        output.Failed,
	}
}
