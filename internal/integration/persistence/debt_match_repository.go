package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/persistence/model"
)

// debtMatchRepository implements the adapter.DebtMatchRepository interface.
type debtMatchRepository struct {
	db *gorm.DB
}

// NewDebtMatchRepository creates a new debt match repository instance.
func NewDebtMatchRepository(db *gorm.DB) adapter.DebtMatchRepository {
	return &debtMatchRepository{
		db: db,
	}
}

// Create inserts a match. A second insert of the same (transaction_id, debt_id)
// pair fails with ErrDuplicateMatch.
func (r *debtMatchRepository) Create(ctx context.Context, match *entity.DebtTransactionMatch) error {
	err := r.db.WithContext(ctx).Create(model.DebtTransactionMatchFromEntity(match)).Error
	if isDuplicateKey(err) {
		return domainerror.ErrDuplicateMatch
	}
	return err
}

// FindByID retrieves a match by its ID.
func (r *debtMatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DebtTransactionMatch, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByTransactionAndDebt retrieves the match of a transaction and debt in any status.
func (r *debtMatchRepository) FindByTransactionAndDebt(ctx context.Context, transactionID, debtID uuid.UUID) (*entity.DebtTransactionMatch, error) {
	return r.first(r.db.WithContext(ctx).Where("transaction_id = ? AND debt_id = ?", transactionID, debtID))
}

func (r *debtMatchRepository) first(query *gorm.DB) (*entity.DebtTransactionMatch, error) {
	var matchModel model.DebtTransactionMatchModel
	if err := query.First(&matchModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrMatchNotFound
		}
		return nil, err
	}
	return matchModel.ToEntity(), nil
}

// FindByDebts retrieves every match of the given debts.
func (r *debtMatchRepository) FindByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.DebtTransactionMatch, error) {
	if len(debtIDs) == 0 {
		return []*entity.DebtTransactionMatch{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("debt_id IN ?", debtIDs))
}

// FindPendingByDebt retrieves the matches of a debt awaiting review, newest first.
func (r *debtMatchRepository) FindPendingByDebt(ctx context.Context, debtID uuid.UUID) ([]*entity.DebtTransactionMatch, error) {
	return r.find(r.db.WithContext(ctx).
		Where("debt_id = ?", debtID).
		Where("match_status = ?", string(entity.MatchStatusPending)))
}

func (r *debtMatchRepository) find(query *gorm.DB) ([]*entity.DebtTransactionMatch, error) {
	var matchModels []model.DebtTransactionMatchModel
	if err := query.Order("created_at DESC").Find(&matchModels).Error; err != nil {
		return nil, err
	}

	matches := make([]*entity.DebtTransactionMatch, len(matchModels))
	for i := range matchModels {
		matches[i] = matchModels[i].ToEntity()
	}
	return matches, nil
}

// TransitionFromPending moves a pending match to status. Of two concurrent
// reviews only one sees a row change.
func (r *debtMatchRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, status entity.MatchStatus, reviewedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.DebtTransactionMatchModel{}).
		Where("id = ? AND match_status = ?", id, string(entity.MatchStatusPending)).
		Updates(map[string]interface{}{
			"match_status": string(status),
			"reviewed_at":  reviewedAt,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
