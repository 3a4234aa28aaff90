package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/persistence/model"
)

// debtRepository implements the adapter.DebtRepository interface.
type debtRepository struct {
	db *gorm.DB
}

// NewDebtRepository creates a new debt repository instance.
func NewDebtRepository(db *gorm.DB) adapter.DebtRepository {
	return &debtRepository{
		db: db,
	}
}

// Create creates a new debt in the database.
func (r *debtRepository) Create(ctx context.Context, debt *entity.Debt) error {
	return r.db.WithContext(ctx).Create(model.DebtFromEntity(debt)).Error
}

// FindByID retrieves a debt by its ID.
func (r *debtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Debt, error) {
	var debtModel model.DebtModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&debtModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDebtNotFound
		}
		return nil, result.Error
	}
	return debtModel.ToEntity(), nil
}

// FindByUser retrieves all debts for a given user.
func (r *debtRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Debt, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindActiveByUser retrieves the debts of a user that are not paid off.
func (r *debtRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Debt, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", string(entity.DebtStatusActive)))
}

func (r *debtRepository) find(query *gorm.DB) ([]*entity.Debt, error) {
	var debtModels []model.DebtModel
	if err := query.Order("created_at ASC").Find(&debtModels).Error; err != nil {
		return nil, err
	}

	debts := make([]*entity.Debt, len(debtModels))
	for i := range debtModels {
		debts[i] = debtModels[i].ToEntity()
	}
	return debts, nil
}

// UpdateBalance overwrites the stored balance and status of a debt.
func (r *debtRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status entity.DebtStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.DebtModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_balance": balance,
			"status":          string(status),
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrDebtNotFound
	}
	return nil
}

// debtPaymentRepository implements the adapter.DebtPaymentRepository interface.
type debtPaymentRepository struct {
	db *gorm.DB
}

// NewDebtPaymentRepository creates a new manual payment repository instance.
func NewDebtPaymentRepository(db *gorm.DB) adapter.DebtPaymentRepository {
	return &debtPaymentRepository{
		db: db,
	}
}

// Create records a manual payment.
func (r *debtPaymentRepository) Create(ctx context.Context, payment *entity.DebtPayment) error {
	return r.db.WithContext(ctx).Create(model.DebtPaymentFromEntity(payment)).Error
}

// FindByDebts retrieves the manual payments of the given debts.
func (r *debtPaymentRepository) FindByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.DebtPayment, error) {
	if len(debtIDs) == 0 {
		return []*entity.DebtPayment{}, nil
	}

	var paymentModels []model.DebtPaymentModel
	result := r.db.WithContext(ctx).
		Where("debt_id IN ?", debtIDs).
		Order("payment_date DESC, created_at DESC").
		Find(&paymentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	payments := make([]*entity.DebtPayment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToEntity()
	}
	return payments, nil
}

// paymentHistoryRepository implements the adapter.PaymentHistoryRepository interface.
type paymentHistoryRepository struct {
	db *gorm.DB
}

// NewPaymentHistoryRepository creates a new payment history repository instance.
func NewPaymentHistoryRepository(db *gorm.DB) adapter.PaymentHistoryRepository {
	return &paymentHistoryRepository{
		db: db,
	}
}

// Create appends a payment history entry.
func (r *paymentHistoryRepository) Create(ctx context.Context, entry *entity.DebtPaymentHistory) error {
	err := r.db.WithContext(ctx).Create(model.DebtPaymentHistoryFromEntity(entry)).Error
	if isDuplicateKey(err) {
		return domainerror.ErrDuplicatePaymentEntry
	}
	return err
}

// Exists checks whether the debt already has an entry for the transaction.
func (r *paymentHistoryRepository) Exists(ctx context.Context, debtID, transactionID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.DebtPaymentHistoryModel{}).
		Where("debt_id = ? AND transaction_id = ?", debtID, transactionID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// FindByDebt retrieves the entries of a debt ordered by payment date descending.
func (r *paymentHistoryRepository) FindByDebt(ctx context.Context, debtID uuid.UUID) ([]*entity.DebtPaymentHistory, error) {
	return r.FindByDebts(ctx, []uuid.UUID{debtID})
}

// FindByDebts retrieves the entries of the given debts.
func (r *paymentHistoryRepository) FindByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.DebtPaymentHistory, error) {
	if len(debtIDs) == 0 {
		return []*entity.DebtPaymentHistory{}, nil
	}

	var entryModels []model.DebtPaymentHistoryModel
	result := r.db.WithContext(ctx).
		Where("debt_id IN ?", debtIDs).
		Order("payment_date DESC, created_at DESC").
		Find(&entryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.DebtPaymentHistory, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToEntity()
	}
	return entries, nil
}
