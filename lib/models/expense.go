package models

import "github.com/shopspring/decimal"

// Expense is a recorded project cost
type Expense struct {
	ID          int64           `json:"id"`
	Project     int64           `json:"project"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	Vendor      string          `json:"vendor,omitempty"`
}

func (e Expense) GetID() int64 { return e.ID }

// CreateExpenseRequest is the expense form payload
type CreateExpenseRequest struct {
	Project     int64           `json:"project"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	Vendor      string          `json:"vendor,omitempty"`
}
