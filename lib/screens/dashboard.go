package screens

import (
	"context"
	"net/url"

	"sitedash/lib/constants"
	"sitedash/lib/models"
	"sitedash/lib/viewmodel"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const recentExpenseLimit = 5

// AdminDashboard is the administrator overview across all projects
type AdminDashboard struct {
	screen

	projects         viewmodel.Collection[models.Project]
	budgets          viewmodel.Collection[models.Budget]
	expenses         viewmodel.Collection[models.Expense]
	inspections      viewmodel.Collection[models.Inspection]
	incidents        viewmodel.Collection[models.Incident]
	purchaseOrders   viewmodel.Collection[models.PurchaseOrder]
	vendors          viewmodel.Collection[models.Vendor]
	materialRequests viewmodel.Collection[models.MaterialRequest]
	users            viewmodel.Collection[models.User]
}

// NewAdminDashboard creates the administrator dashboard
func NewAdminDashboard(fetcher *viewmodel.Fetcher, logger *logrus.Logger) *AdminDashboard {
	d := &AdminDashboard{}
	d.init("admin_dashboard", fetcher, logger)
	return d
}

func (d *AdminDashboard) Load(ctx context.Context) error {
	resources := []viewmodel.Resource{
		{Name: constants.ResourceProjects, Path: constants.PathProjects},
		{Name: constants.ResourceBudgets, Path: constants.PathBudgets},
		{Name: constants.ResourceExpenses, Path: constants.PathExpenses, Query: url.Values{"ordering": {"-date"}}},
		{Name: constants.ResourceInspections, Path: constants.PathInspections},
		{Name: constants.ResourceIncidents, Path: constants.PathIncidents},
		{Name: constants.ResourcePurchaseOrders, Path: constants.PathPurchaseOrders},
		{Name: constants.ResourceVendors, Path: constants.PathVendors},
		{Name: constants.ResourceMaterialRequests, Path: constants.PathMaterialRequests},
		{Name: constants.ResourceUsers, Path: constants.PathUsers},
	}

	return d.load(ctx, resources, func(batch *viewmodel.Batch) {
		d.projects.Set(viewmodel.Items[models.Project](batch, constants.ResourceProjects))
		d.budgets.Set(viewmodel.Items[models.Budget](batch, constants.ResourceBudgets))
		d.expenses.Set(viewmodel.Items[models.Expense](batch, constants.ResourceExpenses))
		d.inspections.Set(viewmodel.Items[models.Inspection](batch, constants.ResourceInspections))
		d.incidents.Set(viewmodel.Items[models.Incident](batch, constants.ResourceIncidents))
		d.purchaseOrders.Set(viewmodel.Items[models.PurchaseOrder](batch, constants.ResourcePurchaseOrders))
		d.vendors.Set(viewmodel.Items[models.Vendor](batch, constants.ResourceVendors))
		d.materialRequests.Set(viewmodel.Items[models.MaterialRequest](batch, constants.ResourceMaterialRequests))
		d.users.Set(viewmodel.Items[models.User](batch, constants.ResourceUsers))
	})
}

// View aggregates the loaded collections into the dashboard
func (d *AdminDashboard) View() (models.AdminDashboardView, error) {
	meta, err := d.viewMeta()
	if err != nil {
		return models.AdminDashboardView{}, err
	}

	now := d.now()
	projects := d.projects.Items()
	budgets := d.budgets.Items()
	expenses := d.expenses.Items()
	requests := d.materialRequests.Items()
	users := d.users.Items()

	totalBudget, totalActual := decimal.Zero, decimal.Zero
	active, completed := 0, 0
	for _, project := range projects {
		totalBudget = totalBudget.Add(project.TotalBudget)
		totalActual = totalActual.Add(project.ActualCost)
		if project.IsOngoing() {
			active++
		}
		if project.Status == models.ProjectStatusCompleted {
			completed++
		}
	}

	pending := viewmodel.PendingMaterialRequests(requests)
	summaries := viewmodel.ProjectSummaries(projects, budgets)

	return models.AdminDashboardView{
		ViewMeta: meta,
		KPIs: models.AdminKPIs{
			TotalProjects:           len(projects),
			ActiveProjects:          active,
			CompletedProjects:       completed,
			TotalBudget:             totalBudget,
			TotalActualCost:         totalActual,
			TotalExpenses:           viewmodel.TotalExpenses(expenses),
			BudgetEfficiency:        viewmodel.BudgetEfficiency(budgets),
			ComplianceRate:          viewmodel.ComplianceRate(d.inspections.Items()),
			DaysSinceLastIncident:   viewmodel.DaysSinceLastIncident(d.incidents.Items(), now),
			PendingApprovals:        viewmodel.PendingApprovals(d.purchaseOrders.Items(), d.vendors.Items()),
			PendingMaterialRequests: len(pending),
			OverdueMaterialRequests: viewmodel.OverdueMaterialRequests(requests, now),
			ActiveUsers:             viewmodel.ActiveUsers(users),
			AverageProgress:         viewmodel.AverageProgress(projects),
		},
		Projects:                summaries,
		Alerts:                  viewmodel.ProjectAlerts(summaries, requests, now),
		RecentExpenses:          viewmodel.RecentExpenses(expenses, recentExpenseLimit),
		PendingMaterialRequests: pending,
	}, nil
}

// SubcontractorDashboard shows the acting user's own work
type SubcontractorDashboard struct {
	screen
	user models.User

	projects         viewmodel.Collection[models.Project]
	tasks            viewmodel.Collection[models.Task]
	materialRequests viewmodel.Collection[models.MaterialRequest]
	documents        viewmodel.Collection[models.Document]
}

// NewSubcontractorDashboard creates the dashboard for user
func NewSubcontractorDashboard(fetcher *viewmodel.Fetcher, user models.User, logger *logrus.Logger) *SubcontractorDashboard {
	d := &SubcontractorDashboard{user: user}
	d.init("subcontractor_dashboard", fetcher, logger)
	return d
}

func (d *SubcontractorDashboard) Load(ctx context.Context) error {
	resources := []viewmodel.Resource{
		{Name: constants.ResourceProjects, Path: constants.PathProjects},
		viewmodel.Resource{Name: constants.ResourceTasks, Path: constants.PathTasks}.Filtered("assigned_to", d.user.ID),
		viewmodel.Resource{Name: constants.ResourceMaterialRequests, Path: constants.PathMaterialRequests}.Filtered("requested_by", d.user.ID),
		viewmodel.Resource{Name: constants.ResourceDocuments, Path: constants.PathDocuments}.Filtered("uploaded_by", d.user.ID),
	}

	return d.load(ctx, resources, func(batch *viewmodel.Batch) {
		d.projects.Set(viewmodel.Items[models.Project](batch, constants.ResourceProjects))
		d.tasks.Set(viewmodel.Items[models.Task](batch, constants.ResourceTasks))
		d.materialRequests.Set(viewmodel.Items[models.MaterialRequest](batch, constants.ResourceMaterialRequests))
		d.documents.Set(viewmodel.Items[models.Document](batch, constants.ResourceDocuments))
	})
}

// View aggregates the user's tasks, requests and documents. Projects are
// narrowed to the ones the user has tasks or requests on.
func (d *SubcontractorDashboard) View() (models.SubcontractorDashboardView, error) {
	meta, err := d.viewMeta()
	if err != nil {
		return models.SubcontractorDashboardView{}, err
	}

	tasks := d.tasks.Items()
	requests := d.materialRequests.Items()
	documents := d.documents.Items()

	involved := make(map[int64]bool)
	for _, task := range tasks {
		involved[task.Project] = true
	}
	for _, request := range requests {
		involved[request.Project] = true
	}
	projects := []models.Project{}
	for _, project := range d.projects.Items() {
		if involved[project.ID] {
			projects = append(projects, project)
		}
	}

	return models.SubcontractorDashboardView{
		ViewMeta: meta,
		User:     d.user,
		KPIs: models.SubcontractorKPIs{
			AssignedProjects:         len(projects),
			AssignedTasks:            len(tasks),
			CompletedTasks:           viewmodel.CountTasks(tasks, models.TaskCompleted),
			TaskCompletionRate:       viewmodel.TaskCompletionRate(tasks),
			PendingMaterialRequests:  viewmodel.CountMaterialRequests(requests, models.MaterialRequestPending),
			ApprovedMaterialRequests: viewmodel.CountMaterialRequests(requests, models.MaterialRequestApproved),
			UploadedDocuments:        len(documents),
			AverageProjectProgress:   viewmodel.AverageProgress(projects),
		},
		Projects:         projects,
		Tasks:            tasks,
		MaterialRequests: requests,
		Documents:        documents,
	}, nil
}
