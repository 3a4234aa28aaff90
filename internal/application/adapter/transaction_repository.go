// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	UserID       uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
	OutgoingOnly bool
	Search       string // Case-insensitive description match
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*entity.Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// TransactionRepository defines the interface for transaction persistence operations.
// Transactions are read-only to the matching engine; only imports write them.
type TransactionRepository interface {
	// CreateBatch inserts imported transactions in a single operation.
	CreateBatch(ctx context.Context, transactions []*entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByIDs retrieves the transactions with the given IDs. Unknown IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Transaction, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*TransactionListResult, error)

	// FindForScan retrieves a user's transactions inside the scan window, newest first.
	// When after is set, it instead returns the transactions imported after the
	// cursor, oldest first, with window.Limit as the page size.
	FindForScan(
		ctx context.Context,
		userID uuid.UUID,
		window entity.TransactionWindow,
		after *entity.ScanCursor,
	) ([]*entity.Transaction, error)
}
