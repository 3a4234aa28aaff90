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

// matchingRuleRepository implements the adapter.MatchingRuleRepository interface.
type matchingRuleRepository struct {
	db *gorm.DB
}

// NewMatchingRuleRepository creates a new matching rule repository instance.
func NewMatchingRuleRepository(db *gorm.DB) adapter.MatchingRuleRepository {
	return &matchingRuleRepository{
		db: db,
	}
}

// Create creates a new matching rule in the database.
func (r *matchingRuleRepository) Create(ctx context.Context, rule *entity.MatchingRule) error {
	return r.db.WithContext(ctx).Create(model.MatchingRuleFromEntity(rule)).Error
}

// CreateIfNone inserts the rules when the debt has none, inside one transaction.
func (r *matchingRuleRepository) CreateIfNone(ctx context.Context, debtID uuid.UUID, rules []*entity.MatchingRule) (bool, error) {
	if len(rules) == 0 {
		return false, nil
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.MatchingRuleModel{}).Where("debt_id = ?", debtID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		ruleModels := make([]*model.MatchingRuleModel, len(rules))
		for i, rule := range rules {
			ruleModels[i] = model.MatchingRuleFromEntity(rule)
		}
		if err := tx.Create(&ruleModels).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// FindByID retrieves a matching rule by its ID.
func (r *matchingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MatchingRule, error) {
	var ruleModel model.MatchingRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrMatchingRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindByDebt retrieves every rule of a debt, enabled or not.
func (r *matchingRuleRepository) FindByDebt(ctx context.Context, debtID uuid.UUID) ([]*entity.MatchingRule, error) {
	return r.find(r.db.WithContext(ctx).Where("debt_id = ?", debtID))
}

// FindEnabledByDebts retrieves the enabled rules of the given debts.
func (r *matchingRuleRepository) FindEnabledByDebts(ctx context.Context, debtIDs []uuid.UUID) ([]*entity.MatchingRule, error) {
	if len(debtIDs) == 0 {
		return []*entity.MatchingRule{}, nil
	}
	return r.find(r.db.WithContext(ctx).
		Where("debt_id IN ?", debtIDs).
		Where("enabled = ?", true))
}

func (r *matchingRuleRepository) find(query *gorm.DB) ([]*entity.MatchingRule, error) {
	var ruleModels []model.MatchingRuleModel
	if err := query.Order("created_at ASC").Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]*entity.MatchingRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToEntity()
	}
	return rules, nil
}

// CountByDebt counts the rules of a debt, enabled or not.
func (r *matchingRuleRepository) CountByDebt(ctx context.Context, debtID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.MatchingRuleModel{}).
		Where("debt_id = ?", debtID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// SetEnabled enables or disables a rule.
func (r *matchingRuleRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.MatchingRuleModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"enabled":    enabled,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrMatchingRuleNotFound
	}
	return nil
}

// Delete removes a rule.
func (r *matchingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MatchingRuleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrMatchingRuleNotFound
	}
	return nil
}
