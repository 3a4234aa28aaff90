package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

const (
	// MaxImportSize is the largest batch accepted by a single import.
	MaxImportSize = 1000
	// MaxDescriptionLength is the maximum length of a transaction description.
	MaxDescriptionLength = 500
)

// ScanTrigger schedules a debt scan for a user whose transactions changed.
type ScanTrigger interface {
	Trigger(userID uuid.UUID)
}

// ImportedTransactionInput is one bank transaction in an import.
type ImportedTransactionInput struct {
	AccountID         string
	Amount            decimal.Decimal
	Description       string
	MerchantName      *string
	CounterpartyName  *string
	AccountNumber     *string
	TransactionDate   time.Time
	IncludeInSpending *bool
}

// ImportTransactionsInput represents the input for importing transactions.
type ImportTransactionsInput struct {
	UserID       uuid.UUID
	Transactions []ImportedTransactionInput
}

// ImportTransactionsOutput represents the output of an import.
type ImportTransactionsOutput struct {
	Transactions  []*entity.Transaction
	ImportedCount int
	ScanScheduled bool
}

// ImportTransactionsUseCase handles bulk transaction imports.
type ImportTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	trigger         ScanTrigger
}

// NewImportTransactionsUseCase creates a new ImportTransactionsUseCase instance.
func NewImportTransactionsUseCase(transactionRepo adapter.TransactionRepository, trigger ScanTrigger) *ImportTransactionsUseCase {
	return &ImportTransactionsUseCase{
		transactionRepo: transactionRepo,
		trigger:         trigger,
	}
}

// Execute validates and stores the batch, then schedules a debt scan for the user.
func (uc *ImportTransactionsUseCase) Execute(ctx context.Context, input ImportTransactionsInput) (*ImportTransactionsOutput, error) {
	if len(input.Transactions) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyImport,
			"at least one transaction is required",
			domainerror.ErrEmptyImport,
		)
	}
	if len(input.Transactions) > MaxImportSize {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeImportTooLarge,
			fmt.Sprintf("an import may contain at most %d transactions", MaxImportSize),
			domainerror.ErrImportTooLarge,
		)
	}

	transactions := make([]*entity.Transaction, 0, len(input.Transactions))
	for i, item := range input.Transactions {
		if err := validateImported(i, item); err != nil {
			return nil, err
		}

		tx := entity.NewTransaction(
			input.UserID,
			strings.TrimSpace(item.AccountID),
			item.Amount,
			strings.TrimSpace(item.Description),
			item.TransactionDate.UTC(),
		)
		tx.MerchantName = trimmed(item.MerchantName)
		tx.CounterpartyName = trimmed(item.CounterpartyName)
		tx.AccountNumber = trimmed(item.AccountNumber)
		if item.IncludeInSpending != nil {
			tx.IncludeInSpending = *item.IncludeInSpending
		}
		transactions = append(transactions, tx)
	}

	if err := uc.transactionRepo.CreateBatch(ctx, transactions); err != nil {
		return nil, fmt.Errorf("failed to import transactions: %w", err)
	}

	slog.Info("Transactions imported",
		"user_id", input.UserID,
		"count", len(transactions),
	)

	output := &ImportTransactionsOutput{
		Transactions:  transactions,
		ImportedCount: len(transactions),
	}
	if uc.trigger != nil {
		uc.trigger.Trigger(input.UserID)
		output.ScanScheduled = true
	}

	return output, nil
}

func validateImported(index int, item ImportedTransactionInput) error {
	if item.Amount.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			fmt.Sprintf("transaction %d: amount must not be zero", index),
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	if item.TransactionDate.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			fmt.Sprintf("transaction %d: date is required", index),
			domainerror.ErrInvalidTransactionDate,
		)
	}
	if len(item.Description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("transaction %d: description must be at most %d characters", index, MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
