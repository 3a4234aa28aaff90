package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/application/usecase/transaction"
	"github.com/finance-tracker/debts/internal/domain/entity"
)

// ImportedTransactionRequest represents one bank transaction in an import batch.
// Amounts are signed: negative for money leaving the account.
type ImportedTransactionRequest struct {
	AccountID         string          `json:"account_id" binding:"max=100"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	MerchantName      *string         `json:"merchant_name,omitempty"`
	CounterpartyName  *string         `json:"counterparty_name,omitempty"`
	AccountNumber     *string         `json:"account_number,omitempty"`
	Date              string          `json:"date" binding:"required"`
	IncludeInSpending *bool           `json:"include_in_spending,omitempty"`
}

// ImportTransactionsRequest represents the request body for a transaction import.
type ImportTransactionsRequest struct {
	Transactions []ImportedTransactionRequest `json:"transactions" binding:"required,min=1,dive"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID                string    `json:"id"`
	AccountID         string    `json:"account_id"`
	Date              string    `json:"date"`
	Description       string    `json:"description"`
	Amount            string    `json:"amount"`
	MerchantName      *string   `json:"merchant_name,omitempty"`
	CounterpartyName  *string   `json:"counterparty_name,omitempty"`
	AccountNumber     *string   `json:"account_number,omitempty"`
	IncludeInSpending bool      `json:"include_in_spending"`
	CreatedAt         time.Time `json:"created_at"`
}

// ImportTransactionsResponse represents the response for a transaction import.
type ImportTransactionsResponse struct {
	ImportedCount int                   `json:"imported_count"`
	ScanScheduled bool                  `json:"scan_scheduled"`
	Transactions  []TransactionResponse `json:"transactions"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse        `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
}

// ToTransactionResponse converts a domain Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                tx.ID.String(),
		AccountID:         tx.AccountID,
		Date:              formatDate(tx.TransactionDate),
		Description:       tx.Description,
		Amount:            tx.Amount.StringFixed(2),
		MerchantName:      tx.MerchantName,
		CounterpartyName:  tx.CounterpartyName,
		AccountNumber:     tx.AccountNumber,
		IncludeInSpending: tx.IncludeInSpending,
		CreatedAt:         tx.CreatedAt,
	}
}

func toTransactionResponses(transactions []*entity.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = ToTransactionResponse(tx)
	}
	return responses
}

// ToImportTransactionsResponse converts the import output to its response DTO.
func ToImportTransactionsResponse(output *transaction.ImportTransactionsOutput) ImportTransactionsResponse {
	return ImportTransactionsResponse{
		ImportedCount: output.ImportedCount,
		ScanScheduled: output.ScanScheduled,
		Transactions:  toTransactionResponses(output.Transactions),
	}
}

// ToTransactionListResponse converts the list output to its response DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	return TransactionListResponse{
		Transactions: toTransactionResponses(output.Transactions),
		Pagination: TransactionPaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
}
