package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Utilization color bands
const (
	BandOK       = "ok"
	BandWarn     = "warn"
	BandCritical = "critical"
)

// Alert levels
const (
	AlertWarning  = "warning"
	AlertCritical = "critical"
)

// Utilization is a budget usage summary. Percentage is rounded for display only.
type Utilization struct {
	Percentage int             `json:"percentage"`
	Remaining  decimal.Decimal `json:"remaining"`
	ColorBand  string          `json:"color_band"`
}

// Alert is a dashboard notification derived from the latest load
type Alert struct {
	Level     string `json:"level"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	ProjectID *int64 `json:"project_id,omitempty"`
}

// ViewMeta is attached to every screen view
type ViewMeta struct {
	BatchSeq uint64    `json:"batch_seq"`
	LoadedAt time.Time `json:"loaded_at"`
	Notice   string    `json:"notice,omitempty"`
}

// ProjectSummary pairs a project with its budget usage
type ProjectSummary struct {
	Project     Project     `json:"project"`
	Utilization Utilization `json:"utilization"`
}

// AdminKPIs are the administrator dashboard headline numbers
type AdminKPIs struct {
	TotalProjects           int             `json:"total_projects"`
	ActiveProjects          int             `json:"active_projects"`
	CompletedProjects       int             `json:"completed_projects"`
	TotalBudget             decimal.Decimal `json:"total_budget"`
	TotalActualCost         decimal.Decimal `json:"total_actual_cost"`
	TotalExpenses           decimal.Decimal `json:"total_expenses"`
	BudgetEfficiency        int             `json:"budget_efficiency"`
	ComplianceRate          int             `json:"compliance_rate"`
	DaysSinceLastIncident   int             `json:"days_since_last_incident"`
	PendingApprovals        int             `json:"pending_approvals"`
	PendingMaterialRequests int             `json:"pending_material_requests"`
	OverdueMaterialRequests int             `json:"overdue_material_requests"`
	ActiveUsers             int             `json:"active_users"`
	AverageProgress         int             `json:"average_progress"`
}

// AdminDashboardView is the administrator dashboard
type AdminDashboardView struct {
	ViewMeta
	KPIs                    AdminKPIs         `json:"kpis"`
	Projects                []ProjectSummary  `json:"projects"`
	Alerts                  []Alert           `json:"alerts"`
	RecentExpenses          []Expense         `json:"recent_expenses"`
	PendingMaterialRequests []MaterialRequest `json:"pending_material_requests"`
}

// SubcontractorKPIs are the subcontractor dashboard headline numbers
type SubcontractorKPIs struct {
	AssignedProjects         int `json:"assigned_projects"`
	AssignedTasks            int `json:"assigned_tasks"`
	CompletedTasks           int `json:"completed_tasks"`
	TaskCompletionRate       int `json:"task_completion_rate"`
	PendingMaterialRequests  int `json:"pending_material_requests"`
	ApprovedMaterialRequests int `json:"approved_material_requests"`
	UploadedDocuments        int `json:"uploaded_documents"`
	AverageProjectProgress   int `json:"average_project_progress"`
}

// SubcontractorDashboardView is the dashboard of the acting subcontractor
type SubcontractorDashboardView struct {
	ViewMeta
	User             User              `json:"user"`
	KPIs             SubcontractorKPIs `json:"kpis"`
	Projects         []Project         `json:"projects"`
	Tasks            []Task            `json:"tasks"`
	MaterialRequests []MaterialRequest `json:"material_requests"`
	Documents        []Document        `json:"documents"`
}

// CategoryBudget compares one category's allocation with what was spent
type CategoryBudget struct {
	Category    string          `json:"category"`
	Allocated   decimal.Decimal `json:"allocated"`
	Spent       decimal.Decimal `json:"spent"`
	Utilization Utilization     `json:"utilization"`
}

// BudgetView is the project budget and expenses screen
type BudgetView struct {
	ViewMeta
	Project     Project              `json:"project"`
	Allocations []CategoryAllocation `json:"allocations"`
	Categories  []CategoryBudget     `json:"categories"`
	TotalSpent  decimal.Decimal      `json:"total_spent"`
	Utilization Utilization          `json:"utilization"`
	Expenses    []Expense            `json:"expenses"`
}

// DocumentsView is the document library screen
type DocumentsView struct {
	ViewMeta
	Documents   []Document     `json:"documents"`
	CountByType map[string]int `json:"count_by_type"`
}

// MaterialRequestsView is the material request list screen
type MaterialRequestsView struct {
	ViewMeta
	Requests           []MaterialRequest `json:"requests"`
	Pending            int               `json:"pending"`
	Approved           int               `json:"approved"`
	Rejected           int               `json:"rejected"`
	HighUrgencyPending int               `json:"high_urgency_pending"`
	Overdue            int               `json:"overdue"`
}

// UsersView is the user management screen
type UsersView struct {
	ViewMeta
	Users       []User         `json:"users"`
	RoleCounts  map[string]int `json:"role_counts"`
	ActiveUsers int            `json:"active_users"`
}
