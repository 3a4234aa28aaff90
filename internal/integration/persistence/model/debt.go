package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// DebtModel represents the debts table in the database.
type DebtModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(100);not null"`
	Creditor       string          `gorm:"type:varchar(255)"`
	OriginalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	MinimumPayment decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status         string          `gorm:"type:varchar(10);not null;index"`
	Priority       string          `gorm:"type:varchar(10);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the DebtModel.
func (DebtModel) TableName() string {
	return "debts"
}

// ToEntity converts a DebtModel to a domain Debt entity.
func (m *DebtModel) ToEntity() *entity.Debt {
	return &entity.Debt{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Creditor:       m.Creditor,
		OriginalAmount: m.OriginalAmount,
		CurrentBalance: m.CurrentBalance,
		InterestRate:   m.InterestRate,
		MinimumPayment: m.MinimumPayment,
		Status:         entity.DebtStatus(m.Status),
		Priority:       entity.DebtPriority(m.Priority),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// DebtFromEntity creates a DebtModel from a domain Debt entity.
func DebtFromEntity(debt *entity.Debt) *DebtModel {
	return &DebtModel{
		ID:             debt.ID,
		UserID:         debt.UserID,
		Name:           debt.Name,
		Creditor:       debt.Creditor,
		OriginalAmount: debt.OriginalAmount,
		CurrentBalance: debt.CurrentBalance,
		InterestRate:   debt.InterestRate,
		MinimumPayment: debt.MinimumPayment,
		Status:         string(debt.Status),
		Priority:       string(debt.Priority),
		CreatedAt:      debt.CreatedAt,
		UpdatedAt:      debt.UpdatedAt,
	}
}

// DebtPaymentModel represents the debt_payments table in the database.
// Rows are manual payments entered by the user.
type DebtPaymentModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DebtID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Principal   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Interest    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PaymentDate time.Time       `gorm:"not null;index"`
	Notes       string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the DebtPaymentModel.
func (DebtPaymentModel) TableName() string {
	return "debt_payments"
}

// ToEntity converts a DebtPaymentModel to a domain DebtPayment entity.
func (m *DebtPaymentModel) ToEntity() *entity.DebtPayment {
	return &entity.DebtPayment{
		ID:          m.ID,
		DebtID:      m.DebtID,
		Amount:      m.Amount,
		Principal:   m.Principal,
		Interest:    m.Interest,
		PaymentDate: m.PaymentDate,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

// DebtPaymentFromEntity creates a DebtPaymentModel from a domain DebtPayment entity.
func DebtPaymentFromEntity(payment *entity.DebtPayment) *DebtPaymentModel {
	return &DebtPaymentModel{
		ID:          payment.ID,
		DebtID:      payment.DebtID,
		Amount:      payment.Amount,
		Principal:   payment.Principal,
		Interest:    payment.Interest,
		PaymentDate: payment.PaymentDate,
		Notes:       payment.Notes,
		CreatedAt:   payment.CreatedAt,
	}
}
