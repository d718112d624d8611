package models

import "github.com/shopspring/decimal"

// Budget categories shared by budget lines and expenses
const (
	CategoryMaterials = "materials"
	CategoryLabor     = "labor"
	CategoryEquipment = "equipment"
	CategoryOverhead  = "overhead"
)

// BudgetCategories lists categories in display order
var BudgetCategories = []string{CategoryMaterials, CategoryLabor, CategoryEquipment, CategoryOverhead}

// Budget is a server-side budget line for one project category
type Budget struct {
	ID              int64           `json:"id"`
	Project         int64           `json:"project"`
	Category        string          `json:"category"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	CommittedAmount decimal.Decimal `json:"committed_amount"`
}

func (b Budget) GetID() int64 { return b.ID }

// CategoryAllocation is the client-side split of a project's total budget.
// It is a presentation approximation and is recomputed on every load.
type CategoryAllocation struct {
	Category   string          `json:"category"`
	Percentage int             `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}
