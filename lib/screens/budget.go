package screens

import (
	"context"
	"net/url"

	"sitedash/lib/constants"
	"sitedash/lib/data"
	"sitedash/lib/models"
	"sitedash/lib/viewmodel"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BudgetScreen shows one project's budget split and expenses
type BudgetScreen struct {
	screen
	projectID int64
	repo      data.ExpenseRepository

	project  viewmodel.Collection[models.Project]
	expenses viewmodel.Collection[models.Expense]
	submit   *viewmodel.Reconciler[models.Expense]
}

// NewBudgetScreen creates the budget screen of projectID
func NewBudgetScreen(fetcher *viewmodel.Fetcher, repo data.ExpenseRepository, projectID int64, logger *logrus.Logger) *BudgetScreen {
	s := &BudgetScreen{
		projectID: projectID,
		repo:      repo,
		submit:    viewmodel.NewReconciler[models.Expense]("expense", logger),
	}
	s.init("budget", fetcher, logger)
	return s
}

func (s *BudgetScreen) Load(ctx context.Context) error {
	resources := []viewmodel.Resource{
		{Name: constants.ResourceProject, Path: data.DetailPath(constants.PathProjects, s.projectID)},
		viewmodel.Resource{
			Name:  constants.ResourceExpenses,
			Path:  constants.PathExpenses,
			Query: url.Values{"ordering": {"-date"}},
		}.Filtered("project", s.projectID),
	}

	return s.load(ctx, resources, func(batch *viewmodel.Batch) {
		projects := []models.Project{}
		if project, ok := viewmodel.Item[models.Project](batch, constants.ResourceProject); ok {
			projects = append(projects, project)
		}
		s.project.Set(projects)
		s.expenses.Set(viewmodel.Items[models.Expense](batch, constants.ResourceExpenses))
	})
}

// View splits the project budget by category and compares it with spend.
// When the project failed to load the allocations are all zero.
func (s *BudgetScreen) View() (models.BudgetView, error) {
	meta, err := s.viewMeta()
	if err != nil {
		return models.BudgetView{}, err
	}

	project, _ := s.project.Find(s.projectID)
	expenses := s.expenses.Items()
	allocations := viewmodel.CategoryAllocations(project.TotalBudget)
	spent := viewmodel.TotalExpenses(expenses)

	return models.BudgetView{
		ViewMeta:    meta,
		Project:     project,
		Allocations: allocations,
		Categories:  viewmodel.CategoryBudgets(allocations, viewmodel.SpendByCategory(expenses)),
		TotalSpent:  spent,
		Utilization: viewmodel.BudgetUtilization(project.TotalBudget, spent, decimal.Zero),
		Expenses:    expenses,
	}, nil
}

// CreateExpense validates and submits an expense for this project. The
// server's record is prepended to the expense list.
func (s *BudgetScreen) CreateExpense(ctx context.Context, request models.CreateExpenseRequest) (*models.Expense, error) {
	request.Project = s.projectID
	if request.Date.IsZero() {
		request.Date = models.NewDate(s.now())
	}
	if err := validateExpense(&request); err != nil {
		return nil, err
	}

	var created models.Expense
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.submit.Create(ctx, &s.expenses, func(ctx context.Context) (models.Expense, error) {
			expense, err := s.repo.CreateExpense(ctx, &request)
			if err != nil {
				return models.Expense{}, err
			}
			return *expense, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func validateExpense(request *models.CreateExpenseRequest) error {
	validation := viewmodel.NewValidationError()
	if request.Project <= 0 {
		validation.Add("project", requiredMessage)
	}
	if !contains(models.BudgetCategories, request.Category) {
		validation.Add("category", choiceMessage(request.Category))
	}
	if !request.Amount.IsPositive() {
		validation.Add("amount", "Ensure this value is greater than 0.")
	}
	if isBlank(request.Description) {
		validation.Add("description", requiredMessage)
	}
	return validation.OrNil()
}
