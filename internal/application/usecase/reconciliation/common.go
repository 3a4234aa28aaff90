// Package reconciliation contains debt balance reconciliation use cases.
package reconciliation

import "github.com/google/uuid"

// DebtBalanceInput identifies a debt of the authenticated user.
type DebtBalanceInput struct {
	UserID uuid.UUID
	DebtID uuid.UUID
}
