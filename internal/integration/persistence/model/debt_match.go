package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// DebtTransactionMatchModel represents the debt_transaction_matches table in the database.
// A transaction is linked to a given debt at most once.
type DebtTransactionMatchModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_debt_matches_tx_debt,priority:1"`
	DebtID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_debt_matches_tx_debt,priority:2;index"`
	RuleID        *uuid.UUID `gorm:"type:uuid;index"`
	Confidence    int        `gorm:"not null"`
	MatchStatus   string     `gorm:"type:varchar(10);not null;index"`
	MatchType     string     `gorm:"type:varchar(10);not null"`
	MatchedField  string     `gorm:"type:varchar(20);not null"`
	MatchedValue  string     `gorm:"type:varchar(255)"`
	ReviewedAt    *time.Time `gorm:"type:timestamp"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for the DebtTransactionMatchModel.
func (DebtTransactionMatchModel) TableName() string {
	return "debt_transaction_matches"
}

// ToEntity converts a DebtTransactionMatchModel to a domain DebtTransactionMatch entity.
func (m *DebtTransactionMatchModel) ToEntity() *entity.DebtTransactionMatch {
	return &entity.DebtTransactionMatch{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		DebtID:        m.DebtID,
		RuleID:        m.RuleID,
		Confidence:    m.Confidence,
		Status:        entity.MatchStatus(m.MatchStatus),
		Type:          entity.MatchType(m.MatchType),
		MatchedField:  m.MatchedField,
		MatchedValue:  m.MatchedValue,
		ReviewedAt:    m.ReviewedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// DebtTransactionMatchFromEntity creates a DebtTransactionMatchModel from a domain entity.
func DebtTransactionMatchFromEntity(match *entity.DebtTransactionMatch) *DebtTransactionMatchModel {
	return &DebtTransactionMatchModel{
		ID:            match.ID,
		TransactionID: match.TransactionID,
		DebtID:        match.DebtID,
		RuleID:        match.RuleID,
		Confidence:    match.Confidence,
		MatchStatus:   string(match.Status),
		MatchType:     string(match.Type),
		MatchedField:  match.MatchedField,
		MatchedValue:  match.MatchedValue,
		ReviewedAt:    match.ReviewedAt,
		CreatedAt:     match.CreatedAt,
		UpdatedAt:     match.UpdatedAt,
	}
}

// DebtPaymentHistoryModel represents the debt_payment_history table in the database.
// Each transaction contributes at most one entry per debt.
type DebtPaymentHistoryModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DebtID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_debt_history_debt_tx,priority:1"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_debt_history_debt_tx,priority:2"`
	MatchID       *uuid.UUID      `gorm:"type:uuid;index"`
	PaymentDate   time.Time       `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the DebtPaymentHistoryModel.
func (DebtPaymentHistoryModel) TableName() string {
	return "debt_payment_history"
}

// ToEntity converts a DebtPaymentHistoryModel to a domain DebtPaymentHistory entity.
func (m *DebtPaymentHistoryModel) ToEntity() *entity.DebtPaymentHistory {
	return &entity.DebtPaymentHistory{
		ID:            m.ID,
		DebtID:        m.DebtID,
		TransactionID: m.TransactionID,
		MatchID:       m.MatchID,
		PaymentDate:   m.PaymentDate,
		Amount:        m.Amount,
		BalanceAfter:  m.BalanceAfter,
		CreatedAt:     m.CreatedAt,
	}
}

// DebtPaymentHistoryFromEntity creates a DebtPaymentHistoryModel from a domain entity.
func DebtPaymentHistoryFromEntity(entry *entity.DebtPaymentHistory) *DebtPaymentHistoryModel {
	return &DebtPaymentHistoryModel{
		ID:            entry.ID,
		DebtID:        entry.DebtID,
		TransactionID: entry.TransactionID,
		MatchID:       entry.MatchID,
		PaymentDate:   entry.PaymentDate,
		Amount:        entry.Amount,
		BalanceAfter:  entry.BalanceAfter,
		CreatedAt:     entry.CreatedAt,
	}
}
