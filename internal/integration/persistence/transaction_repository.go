// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/persistence/model"
)

// importBatchSize is the number of rows inserted per statement.
const importBatchSize = 200

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// CreateBatch inserts imported transactions in a single operation.
func (r *transactionRepository) CreateBatch(ctx context.Context, transactions []*entity.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	transactionModels := make([]*model.TransactionModel, len(transactions))
	for i, t := range transactions {
		transactionModels[i] = model.TransactionFromEntity(t)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(transactionModels, importBatchSize).Error
	})
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByIDs retrieves the transactions with the given IDs.
func (r *transactionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Transaction, error) {
	if len(ids) == 0 {
		return []*entity.Transaction{}, nil
	}

	var transactionModels []model.TransactionModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	return toTransactions(transactionModels), nil
}

// FindByFilter retrieves transactions based on filter criteria with pagination.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{})

	// Apply filters
	query = query.Where("user_id = ?", filter.UserID)

	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", filter.EndDate)
	}
	if filter.OutgoingOnly {
		query = query.Where("amount < 0")
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(description) LIKE ?", searchPattern)
	}

	// Get total count
	var total int64
	countQuery := query.Session(&gorm.Session{})
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Limit < 1 {
		pagination.Limit = 20
	}

	// Calculate pagination
	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	var transactionModels []model.TransactionModel
	result := query.
		Order("transaction_date DESC, created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	return &adapter.TransactionListResult{
		Transactions: toTransactions(transactionModels),
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// FindForScan retrieves a user's transactions inside the scan window, newest import first.
// With a cursor it pages forward through imports in (created_at, id) order.
func (r *transactionRepository) FindForScan(
	ctx context.Context,
	userID uuid.UUID,
	window entity.TransactionWindow,
	after *entity.ScanCursor,
) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if window.Limit > 0 {
		query = query.Limit(window.Limit)
	} else if window.Since != nil {
		query = query.Where("transaction_date >= ?", *window.Since)
	}

	order := "created_at DESC, transaction_date DESC"
	if after != nil {
		order = "created_at ASC, id ASC"
		switch {
		case after.CreatedAt.IsZero():
		case after.ID == uuid.Nil:
			query = query.Where("created_at > ?", after.CreatedAt)
		default:
			query = query.Where("(created_at > ? OR (created_at = ? AND id > ?))",
				after.CreatedAt, after.CreatedAt, after.ID)
		}
	}

	var transactionModels []model.TransactionModel
	if err := query.Order(order).Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	return toTransactions(transactionModels), nil
}

func toTransactions(transactionModels []model.TransactionModel) []*entity.Transaction {
	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntity()
	}
	return transactions
}
