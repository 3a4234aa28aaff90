// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_user_created,priority:1;index:idx_transactions_user_date,priority:1"`
	AccountID         string          `gorm:"type:varchar(100)"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description       string          `gorm:"type:varchar(500);not null"`
	MerchantName      *string         `gorm:"type:varchar(255)"`
	CounterpartyName  *string         `gorm:"type:varchar(255)"`
	AccountNumber     *string         `gorm:"type:varchar(64)"`
	TransactionDate   time.Time       `gorm:"not null;index:idx_transactions_user_date,priority:2"`
	IncludeInSpending bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time       `gorm:"not null;index:idx_transactions_user_created,priority:2"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:                m.ID,
		UserID:            m.UserID,
		AccountID:         m.AccountID,
		Amount:            m.Amount,
		Description:       m.Description,
		MerchantName:      m.MerchantName,
		CounterpartyName:  m.CounterpartyName,
		AccountNumber:     m.AccountNumber,
		TransactionDate:   m.TransactionDate,
		IncludeInSpending: m.IncludeInSpending,
		CreatedAt:         m.CreatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:                transaction.ID,
		UserID:            transaction.UserID,
		AccountID:         transaction.AccountID,
		Amount:            transaction.Amount,
		Description:       transaction.Description,
		MerchantName:      transaction.MerchantName,
		CounterpartyName:  transaction.CounterpartyName,
		AccountNumber:     transaction.AccountNumber,
		TransactionDate:   transaction.TransactionDate,
		IncludeInSpending: transaction.IncludeInSpending,
		CreatedAt:         transaction.CreatedAt,
	}
}
