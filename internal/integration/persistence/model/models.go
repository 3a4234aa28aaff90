package model

// All returns the models managed by the debt service, in migration order.
func All() []interface{} {
	return []interface{}{
		&TransactionModel{},
		&DebtModel{},
		&DebtPaymentModel{},
		&MatchingRuleModel{},
		&DebtTransactionMatchModel{},
		&DebtPaymentHistoryModel{},
	}
}
