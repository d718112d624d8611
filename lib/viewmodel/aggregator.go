package viewmodel

import (
	"fmt"
	"sort"
	"time"

	"sitedash/lib/models"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// category split of a project's total budget; overhead takes the remainder
var categoryShares = []struct {
	category string
	percent  int64
}{
	{models.CategoryMaterials, 40},
	{models.CategoryLabor, 30},
	{models.CategoryEquipment, 20},
	{models.CategoryOverhead, 10},
}

// roundHalfUp rounds to the nearest integer, halves toward +Inf
func roundHalfUp(d decimal.Decimal) int {
	return int(d.Add(half).Floor().IntPart())
}

// percentOf returns num/den*100 unrounded, zero when den is zero
func percentOf(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Mul(hundred).Div(den)
}

// Percent is the display percentage num/den*100, 0 when den is 0
func Percent(num, den int) int {
	return roundHalfUp(percentOf(decimal.NewFromInt(int64(num)), decimal.NewFromInt(int64(den))))
}

// ColorBand classifies a displayed utilization percentage
func ColorBand(percent int) string {
	switch {
	case percent < 50:
		return models.BandOK
	case percent < 80:
		return models.BandWarn
	default:
		return models.BandCritical
	}
}

// BudgetUtilization summarises how much of allocated has been spent.
// An allocation of zero reports 0%.
func BudgetUtilization(allocated, spent, committed decimal.Decimal) models.Utilization {
	percentage := roundHalfUp(percentOf(spent, allocated))
	return models.Utilization{
		Percentage: percentage,
		Remaining:  allocated.Sub(spent).Sub(committed),
		ColorBand:  ColorBand(percentage),
	}
}

// ComplianceRate is the share of passed inspections, 0 for none
func ComplianceRate(inspections []models.Inspection) int {
	passed := 0
	for _, inspection := range inspections {
		if inspection.Status == models.InspectionPassed {
			passed++
		}
	}
	return Percent(passed, len(inspections))
}

// DaysSinceLastIncident counts whole days between the most recent incident
// and now. No incidents, or an incident dated in the future, yields 0.
func DaysSinceLastIncident(incidents []models.Incident, now time.Time) int {
	var latest time.Time
	for _, incident := range incidents {
		if incident.IncidentDate.After(latest) {
			latest = incident.IncidentDate.Time
		}
	}
	if latest.IsZero() || now.Before(latest) {
		return 0
	}
	return int(now.Sub(latest) / (24 * time.Hour))
}

// PendingApprovals counts draft or pending purchase orders plus vendors
// still awaiting approval
func PendingApprovals(purchaseOrders []models.PurchaseOrder, vendors []models.Vendor) int {
	count := 0
	for _, po := range purchaseOrders {
		if po.AwaitsApproval() {
			count++
		}
	}
	for _, vendor := range vendors {
		if !vendor.IsApproved {
			count++
		}
	}
	return count
}

// BudgetEfficiency is the unspent share of all allocated budget lines.
// It goes negative once spending exceeds the allocation.
func BudgetEfficiency(budgets []models.Budget) int {
	allocated, spent := decimal.Zero, decimal.Zero
	for _, budget := range budgets {
		allocated = allocated.Add(budget.AllocatedAmount)
		spent = spent.Add(budget.SpentAmount)
	}
	if allocated.IsZero() {
		return 0
	}
	return roundHalfUp(percentOf(allocated.Sub(spent), allocated))
}

// CategoryAllocations splits a total budget 40/30/20/10. Amounts are
// rounded to cents and overhead absorbs the remainder, so the parts
// always sum to total.
func CategoryAllocations(total decimal.Decimal) []models.CategoryAllocation {
	allocations := make([]models.CategoryAllocation, 0, len(categoryShares))
	assigned := decimal.Zero
	for i, share := range categoryShares {
		amount := total.Mul(decimal.NewFromInt(share.percent)).Div(hundred).Round(2)
		if i == len(categoryShares)-1 {
			amount = total.Sub(assigned)
		}
		assigned = assigned.Add(amount)
		allocations = append(allocations, models.CategoryAllocation{
			Category:   share.category,
			Percentage: int(share.percent),
			Amount:     amount,
		})
	}
	return allocations
}

// SpendByCategory totals expenses per budget category. Categories outside
// the budget vocabulary are booked as overhead.
func SpendByCategory(expenses []models.Expense) map[string]decimal.Decimal {
	spend := make(map[string]decimal.Decimal, len(models.BudgetCategories))
	for _, category := range models.BudgetCategories {
		spend[category] = decimal.Zero
	}
	for _, expense := range expenses {
		category := expense.Category
		if _, known := spend[category]; !known {
			category = models.CategoryOverhead
		}
		spend[category] = spend[category].Add(expense.Amount)
	}
	return spend
}

// CategoryBudgets pairs each allocation with the spend booked against it
func CategoryBudgets(allocations []models.CategoryAllocation, spend map[string]decimal.Decimal) []models.CategoryBudget {
	budgets := make([]models.CategoryBudget, 0, len(allocations))
	for _, allocation := range allocations {
		spent := spend[allocation.Category]
		budgets = append(budgets, models.CategoryBudget{
			Category:    allocation.Category,
			Allocated:   allocation.Amount,
			Spent:       spent,
			Utilization: BudgetUtilization(allocation.Amount, spent, decimal.Zero),
		})
	}
	return budgets
}

// TotalExpenses sums expense amounts
func TotalExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
	}
	return total
}

// RecentExpenses returns up to limit expenses, newest date first. Equal
// dates keep their original order.
func RecentExpenses(expenses []models.Expense, limit int) []models.Expense {
	sorted := append([]models.Expense(nil), expenses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	if sorted == nil {
		sorted = []models.Expense{}
	}
	return sorted
}

// AverageProgress is the mean progress percentage, 0 for no projects
func AverageProgress(projects []models.Project) int {
	if len(projects) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, project := range projects {
		sum = sum.Add(decimal.NewFromFloat(project.ProgressPercentage))
	}
	return roundHalfUp(sum.Div(decimal.NewFromInt(int64(len(projects)))))
}

// ProjectSummaries computes budget usage per project. Committed amounts come
// from the project's budget lines.
func ProjectSummaries(projects []models.Project, budgets []models.Budget) []models.ProjectSummary {
	committed := make(map[int64]decimal.Decimal)
	for _, budget := range budgets {
		committed[budget.Project] = committed[budget.Project].Add(budget.CommittedAmount)
	}

	summaries := make([]models.ProjectSummary, 0, len(projects))
	for _, project := range projects {
		summaries = append(summaries, models.ProjectSummary{
			Project:     project,
			Utilization: BudgetUtilization(project.TotalBudget, project.ActualCost, committed[project.ID]),
		})
	}
	return summaries
}

// TaskCompletionRate is the share of completed tasks
func TaskCompletionRate(tasks []models.Task) int {
	return Percent(CountTasks(tasks, models.TaskCompleted), len(tasks))
}

// CountTasks counts tasks in status
func CountTasks(tasks []models.Task, status string) int {
	count := 0
	for _, task := range tasks {
		if task.Status == status {
			count++
		}
	}
	return count
}

// CountMaterialRequests counts requests in status
func CountMaterialRequests(requests []models.MaterialRequest, status string) int {
	count := 0
	for _, request := range requests {
		if request.Status == status {
			count++
		}
	}
	return count
}

// PendingMaterialRequests filters requests still awaiting approval
func PendingMaterialRequests(requests []models.MaterialRequest) []models.MaterialRequest {
	pending := []models.MaterialRequest{}
	for _, request := range requests {
		if request.Status == models.MaterialRequestPending {
			pending = append(pending, request)
		}
	}
	return pending
}

// HighUrgencyPending counts pending requests flagged high urgency
func HighUrgencyPending(requests []models.MaterialRequest) int {
	count := 0
	for _, request := range requests {
		if request.Status == models.MaterialRequestPending && request.Urgency == models.UrgencyHigh {
			count++
		}
	}
	return count
}

// OverdueMaterialRequests counts pending requests whose required date is
// before today
func OverdueMaterialRequests(requests []models.MaterialRequest, now time.Time) int {
	today := models.NewDate(now)
	count := 0
	for _, request := range requests {
		if request.Status != models.MaterialRequestPending || request.RequiredDate.IsZero() {
			continue
		}
		if request.RequiredDate.Before(today.Time) {
			count++
		}
	}
	return count
}

// RoleCounts counts users per role. Every known role is present.
func RoleCounts(users []models.User) map[string]int {
	counts := make(map[string]int, len(models.UserRoles))
	for _, role := range models.UserRoles {
		counts[role] = 0
	}
	for _, user := range users {
		counts[user.Role]++
	}
	return counts
}

// ActiveUsers counts users with is_active set
func ActiveUsers(users []models.User) int {
	count := 0
	for _, user := range users {
		if user.IsActive {
			count++
		}
	}
	return count
}

// CountByDocumentType counts documents per type. Every known type is present.
func CountByDocumentType(documents []models.Document) map[string]int {
	counts := make(map[string]int, len(models.DocumentTypes))
	for _, documentType := range models.DocumentTypes {
		counts[documentType] = 0
	}
	for _, document := range documents {
		counts[document.DocumentType]++
	}
	return counts
}

// ProjectAlerts raises a critical alert per over-budget project and one
// warning for overdue material requests
func ProjectAlerts(summaries []models.ProjectSummary, requests []models.MaterialRequest, now time.Time) []models.Alert {
	alerts := []models.Alert{}
	for _, summary := range summaries {
		if summary.Utilization.ColorBand != models.BandCritical {
			continue
		}
		projectID := summary.Project.ID
		alerts = append(alerts, models.Alert{
			Level:     models.AlertCritical,
			Kind:      "budget",
			Message:   fmt.Sprintf("%s has used %d%% of its budget", summary.Project.Name, summary.Utilization.Percentage),
			ProjectID: &projectID,
		})
	}

	if overdue := OverdueMaterialRequests(requests, now); overdue > 0 {
		alerts = append(alerts, models.Alert{
			Level:   models.AlertWarning,
			Kind:    "material_requests",
			Message: fmt.Sprintf("%d material requests are past their required date", overdue),
		})
	}
	return alerts
}
