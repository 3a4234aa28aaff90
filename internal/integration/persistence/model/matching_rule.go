package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// MatchingRuleModel represents the debt_matching_rules table in the database.
type MatchingRuleModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	DebtID              uuid.UUID `gorm:"type:uuid;not null;index"`
	RuleType            string    `gorm:"type:varchar(10);not null"`
	Field               string    `gorm:"type:varchar(20);not null"`
	Value               string    `gorm:"type:varchar(255);not null"`
	ConfidenceThreshold int       `gorm:"not null;default:85"`
	Enabled             bool      `gorm:"not null;default:true;index"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for the MatchingRuleModel.
func (MatchingRuleModel) TableName() string {
	return "debt_matching_rules"
}

// ToEntity converts a MatchingRuleModel to a domain MatchingRule entity.
func (m *MatchingRuleModel) ToEntity() *entity.MatchingRule {
	return &entity.MatchingRule{
		ID:                  m.ID,
		DebtID:              m.DebtID,
		Type:                entity.RuleType(m.RuleType),
		Field:               entity.RuleField(m.Field),
		Value:               m.Value,
		ConfidenceThreshold: m.ConfidenceThreshold,
		Enabled:             m.Enabled,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// MatchingRuleFromEntity creates a MatchingRuleModel from a domain MatchingRule entity.
func MatchingRuleFromEntity(rule *entity.MatchingRule) *MatchingRuleModel {
	return &MatchingRuleModel{
		ID:                  rule.ID,
		DebtID:              rule.DebtID,
		RuleType:            string(rule.Type),
		Field:               string(rule.Field),
		Value:               rule.Value,
		ConfidenceThreshold: rule.ConfidenceThreshold,
		Enabled:             rule.Enabled,
		CreatedAt:           rule.CreatedAt,
		UpdatedAt:           rule.UpdatedAt,
	}
}
