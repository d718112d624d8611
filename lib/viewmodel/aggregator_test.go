package viewmodel

import (
	"math/rand"
	"testing"
	"time"

	"sitedash/lib/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) models.Date {
	return models.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestBudgetUtilization(t *testing.T) {
	cases := []struct {
		name      string
		allocated string
		spent     string
		committed string
		percent   int
		remaining string
		band      string
	}{
		{name: "zero allocation", allocated: "0", spent: "500", committed: "0", percent: 0, remaining: "-500", band: models.BandOK},
		{name: "under half", allocated: "1000", spent: "250", committed: "100", percent: 25, remaining: "650", band: models.BandOK},
		{name: "exactly half", allocated: "1000", spent: "500", committed: "0", percent: 50, remaining: "500", band: models.BandWarn},
		{name: "rounds half up", allocated: "200", spent: "1", committed: "0", percent: 1, remaining: "199", band: models.BandOK},
		{name: "rounds into critical", allocated: "1000", spent: "799", committed: "0", percent: 80, remaining: "201", band: models.BandCritical},
		{name: "rounds into warn", allocated: "1000", spent: "496", committed: "0", percent: 50, remaining: "504", band: models.BandWarn},
		{name: "just under warn", allocated: "1000", spent: "494", committed: "0", percent: 49, remaining: "506", band: models.BandOK},
		{name: "critical", allocated: "1000", spent: "800", committed: "0", percent: 80, remaining: "200", band: models.BandCritical},
		{name: "overspent", allocated: "1000", spent: "1250", committed: "50", percent: 125, remaining: "-300", band: models.BandCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := BudgetUtilization(dec(tc.allocated), dec(tc.spent), dec(tc.committed))
			assert.Equal(t, tc.percent, u.Percentage)
			assert.True(t, dec(tc.remaining).Equal(u.Remaining), "remaining %s", u.Remaining)
			assert.Equal(t, tc.band, u.ColorBand)
		})
	}
}

func TestColorBand(t *testing.T) {
	assert.Equal(t, models.BandOK, ColorBand(0))
	assert.Equal(t, models.BandOK, ColorBand(49))
	assert.Equal(t, models.BandWarn, ColorBand(50))
	assert.Equal(t, models.BandWarn, ColorBand(79))
	assert.Equal(t, models.BandCritical, ColorBand(80))
	assert.Equal(t, models.BandCritical, ColorBand(140))
}

func TestBudgetUtilization_MatchesRoundedRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		allocated := int64(rng.Intn(1_000_000) + 1)
		spent := int64(rng.Intn(2_000_000))
		expected := Percent(int(spent), int(allocated))

		u := BudgetUtilization(decimal.NewFromInt(allocated), decimal.NewFromInt(spent), decimal.Zero)

		require.Equal(t, expected, u.Percentage, "allocated=%d spent=%d", allocated, spent)
		require.Equal(t, ColorBand(expected), u.ColorBand, "allocated=%d spent=%d", allocated, spent)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 1, Percent(1, 200))
}

func TestComplianceRate(t *testing.T) {
	assert.Equal(t, 0, ComplianceRate(nil))
	assert.Equal(t, 0, ComplianceRate([]models.Inspection{}))
	assert.Equal(t, 50, ComplianceRate([]models.Inspection{
		{Status: models.InspectionPassed},
		{Status: models.InspectionFailed},
	}))
	assert.Equal(t, 67, ComplianceRate([]models.Inspection{
		{Status: models.InspectionPassed},
		{Status: models.InspectionPassed},
		{Status: models.InspectionPending},
	}))
}

func TestDaysSinceLastIncident(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysSinceLastIncident(nil, now))
	assert.Equal(t, 5, DaysSinceLastIncident([]models.Incident{{IncidentDate: day(2024, 3, 5)}}, now))

	incidents := []models.Incident{
		{ID: 1, IncidentDate: day(2024, 1, 1)},
		{ID: 2, IncidentDate: day(2024, 3, 8)},
		{ID: 3, IncidentDate: day(2024, 2, 14)},
	}
	assert.Equal(t, 2, DaysSinceLastIncident(incidents, now))
	assert.Equal(t, 2, DaysSinceLastIncident(incidents, now.Add(20*time.Hour)))

	// elapsed time is measured between instants, whatever zone now carries
	eastern := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, 1, DaysSinceLastIncident(incidents, time.Date(2024, 3, 10, 0, 30, 0, 0, eastern)))
	assert.Equal(t, 2, DaysSinceLastIncident(incidents, time.Date(2024, 3, 10, 2, 30, 0, 0, eastern)))

	future := []models.Incident{{IncidentDate: day(2024, 3, 12)}}
	assert.Equal(t, 0, DaysSinceLastIncident(future, now))
}

func TestPendingApprovals_AdditiveAndOrderIndependent(t *testing.T) {
	orders := []models.PurchaseOrder{
		{ID: 1, Status: models.PurchaseOrderDraft},
		{ID: 2, Status: models.PurchaseOrderPending},
		{ID: 3, Status: models.PurchaseOrderApproved},
		{ID: 4, Status: models.PurchaseOrderDelivered},
	}
	vendors := []models.Vendor{
		{ID: 1, IsApproved: true},
		{ID: 2, IsApproved: false},
		{ID: 3, IsApproved: false},
	}

	expected := PendingApprovals(orders, nil) + PendingApprovals(nil, vendors)
	assert.Equal(t, 4, expected)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(orders), func(a, b int) { orders[a], orders[b] = orders[b], orders[a] })
		rng.Shuffle(len(vendors), func(a, b int) { vendors[a], vendors[b] = vendors[b], vendors[a] })
		assert.Equal(t, expected, PendingApprovals(orders, vendors))
	}
}

func TestBudgetEfficiency(t *testing.T) {
	assert.Equal(t, 0, BudgetEfficiency(nil))
	assert.Equal(t, 0, BudgetEfficiency([]models.Budget{{AllocatedAmount: dec("0"), SpentAmount: dec("10")}}))
	assert.Equal(t, 60, BudgetEfficiency([]models.Budget{
		{AllocatedAmount: dec("1000"), SpentAmount: dec("300")},
		{AllocatedAmount: dec("1000"), SpentAmount: dec("500")},
	}))
	assert.Equal(t, -25, BudgetEfficiency([]models.Budget{{AllocatedAmount: dec("400"), SpentAmount: dec("500")}}))
}

func TestCategoryAllocations_SumToTotal(t *testing.T) {
	allocations := CategoryAllocations(dec("1000000"))

	require.Len(t, allocations, 4)
	expected := map[string]string{
		models.CategoryMaterials: "400000",
		models.CategoryLabor:     "300000",
		models.CategoryEquipment: "200000",
		models.CategoryOverhead:  "100000",
	}
	sum := decimal.Zero
	percent := 0
	for _, allocation := range allocations {
		assert.True(t, dec(expected[allocation.Category]).Equal(allocation.Amount), "%s = %s", allocation.Category, allocation.Amount)
		sum = sum.Add(allocation.Amount)
		percent += allocation.Percentage
	}
	assert.True(t, dec("1000000").Equal(sum))
	assert.Equal(t, 100, percent)
}

func TestCategoryAllocations_OddAmountsStillSum(t *testing.T) {
	for _, total := range []string{"0", "0.01", "999.99", "1234567.89", "33.33"} {
		sum := decimal.Zero
		for _, allocation := range CategoryAllocations(dec(total)) {
			sum = sum.Add(allocation.Amount)
		}
		assert.True(t, dec(total).Equal(sum), "total %s summed to %s", total, sum)
	}
}

func TestSpendByCategoryAndCategoryBudgets(t *testing.T) {
	expenses := []models.Expense{
		{Category: models.CategoryMaterials, Amount: dec("150000")},
		{Category: models.CategoryMaterials, Amount: dec("50000")},
		{Category: models.CategoryLabor, Amount: dec("270000")},
		{Category: "permits", Amount: dec("5000")},
	}

	spend := SpendByCategory(expenses)

	assert.True(t, dec("200000").Equal(spend[models.CategoryMaterials]))
	assert.True(t, dec("270000").Equal(spend[models.CategoryLabor]))
	assert.True(t, decimal.Zero.Equal(spend[models.CategoryEquipment]))
	assert.True(t, dec("5000").Equal(spend[models.CategoryOverhead]))

	budgets := CategoryBudgets(CategoryAllocations(dec("1000000")), spend)
	require.Len(t, budgets, 4)
	assert.Equal(t, 50, budgets[0].Utilization.Percentage)
	assert.Equal(t, models.BandWarn, budgets[0].Utilization.ColorBand)
	assert.Equal(t, 90, budgets[1].Utilization.Percentage)
	assert.Equal(t, models.BandCritical, budgets[1].Utilization.ColorBand)
	assert.Equal(t, 0, budgets[2].Utilization.Percentage)
	assert.True(t, dec("475000").Equal(TotalExpenses(expenses)))
}

func TestRecentExpenses(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, Date: day(2024, 1, 1)},
		{ID: 2, Date: day(2024, 3, 1)},
		{ID: 3, Date: day(2024, 2, 1)},
		{ID: 4, Date: day(2024, 3, 1)},
	}

	recent := RecentExpenses(expenses, 3)

	require.Len(t, recent, 3)
	assert.Equal(t, []int64{2, 4, 3}, []int64{recent[0].ID, recent[1].ID, recent[2].ID})
	assert.Equal(t, int64(1), expenses[0].ID, "input must not be reordered")
	assert.NotNil(t, RecentExpenses(nil, 5))
}

func TestProjectSummariesAndAlerts(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{ID: 1, Name: "Tower A", TotalBudget: dec("1000"), ActualCost: dec("900")},
		{ID: 2, Name: "Depot", TotalBudget: dec("1000"), ActualCost: dec("100")},
	}
	budgets := []models.Budget{
		{Project: 1, CommittedAmount: dec("50")},
		{Project: 1, CommittedAmount: dec("25")},
	}
	requests := []models.MaterialRequest{
		{Status: models.MaterialRequestPending, RequiredDate: day(2024, 5, 30)},
		{Status: models.MaterialRequestPending, RequiredDate: day(2024, 6, 1)},
		{Status: models.MaterialRequestApproved, RequiredDate: day(2024, 5, 1)},
		{Status: models.MaterialRequestPending},
	}

	summaries := ProjectSummaries(projects, budgets)
	require.Len(t, summaries, 2)
	assert.True(t, dec("25").Equal(summaries[0].Utilization.Remaining))
	assert.Equal(t, models.BandCritical, summaries[0].Utilization.ColorBand)
	assert.Equal(t, models.BandOK, summaries[1].Utilization.ColorBand)

	alerts := ProjectAlerts(summaries, requests, now)
	require.Len(t, alerts, 2)
	assert.Equal(t, models.AlertCritical, alerts[0].Level)
	assert.Equal(t, "Tower A has used 90% of its budget", alerts[0].Message)
	require.NotNil(t, alerts[0].ProjectID)
	assert.Equal(t, int64(1), *alerts[0].ProjectID)
	assert.Equal(t, "1 material requests are past their required date", alerts[1].Message)
}

func TestCountsAndRates(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskCompleted},
		{Status: models.TaskInProgress},
		{Status: models.TaskCompleted},
		{Status: models.TaskPending},
	}
	assert.Equal(t, 50, TaskCompletionRate(tasks))
	assert.Equal(t, 0, TaskCompletionRate(nil))

	requests := []models.MaterialRequest{
		{Status: models.MaterialRequestPending, Urgency: models.UrgencyHigh},
		{Status: models.MaterialRequestPending, Urgency: models.UrgencyLow},
		{Status: models.MaterialRequestApproved, Urgency: models.UrgencyHigh},
		{Status: models.MaterialRequestRejected},
	}
	assert.Equal(t, 2, CountMaterialRequests(requests, models.MaterialRequestPending))
	assert.Len(t, PendingMaterialRequests(requests), 2)
	assert.Equal(t, 1, HighUrgencyPending(requests))

	users := []models.User{
		{Role: models.RoleAdmin, IsActive: true},
		{Role: models.RoleWorker, IsActive: true},
		{Role: models.RoleWorker, IsActive: false},
	}
	counts := RoleCounts(users)
	assert.Equal(t, 1, counts[models.RoleAdmin])
	assert.Equal(t, 2, counts[models.RoleWorker])
	assert.Equal(t, 0, counts[models.RoleForeman])
	assert.Len(t, counts, len(models.UserRoles))
	assert.Equal(t, 2, ActiveUsers(users))

	byType := CountByDocumentType([]models.Document{
		{DocumentType: models.DocumentTypePermit},
		{DocumentType: models.DocumentTypePermit},
		{DocumentType: models.DocumentTypeBlueprint},
	})
	assert.Equal(t, 2, byType[models.DocumentTypePermit])
	assert.Equal(t, 0, byType[models.DocumentTypeContract])

	assert.Equal(t, 0, AverageProgress(nil))
	assert.Equal(t, 43, AverageProgress([]models.Project{{ProgressPercentage: 10}, {ProgressPercentage: 75.5}}))
}
