package models

import "github.com/shopspring/decimal"

// Project statuses
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusActive     = "active"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

// Project is a construction project as served by the API. ActualCost and
// ProgressPercentage are server-authoritative and may move in either
// direction between polls.
type Project struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Location           string          `json:"location,omitempty"`
	Status             string          `json:"status"`
	TotalBudget        decimal.Decimal `json:"total_budget"`
	ActualCost         decimal.Decimal `json:"actual_cost"`
	ProgressPercentage float64         `json:"progress_percentage"`
	Manager            *int64          `json:"manager,omitempty"`
	StartDate          Date            `json:"start_date"`
	EndDate            Date            `json:"end_date"`
}

func (p Project) GetID() int64 { return p.ID }

// IsOngoing reports whether the project counts as active work
func (p Project) IsOngoing() bool {
	return p.Status == ProjectStatusActive || p.Status == ProjectStatusInProgress
}
