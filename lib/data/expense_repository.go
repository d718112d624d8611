package data

import (
	"context"
	"fmt"

	"sitedash/lib/constants"
	"sitedash/lib/models"

	"github.com/sirupsen/logrus"
)

// ExpenseRepository writes expenses to the construction API
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, request *models.CreateExpenseRequest) (*models.Expense, error)
}

// ExpenseDao implements ExpenseRepository over the REST API
type ExpenseDao struct {
	API    RESTWriter
	Logger *logrus.Logger
}

// NewExpenseDao creates a new instance of ExpenseDao
func NewExpenseDao(api RESTWriter, logger *logrus.Logger) ExpenseRepository {
	return &ExpenseDao{
		API:    api,
		Logger: logger,
	}
}

func (dao *ExpenseDao) CreateExpense(ctx context.Context, request *models.CreateExpenseRequest) (*models.Expense, error) {
	var expense models.Expense
	if err := dao.API.Post(ctx, constants.PathExpenses, request, &expense); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation":  "CreateExpense",
			"project_id": request.Project,
			"category":   request.Category,
			"error":      err.Error(),
		}).Error("Failed to create expense")
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":  "CreateExpense",
		"project_id": expense.Project,
		"expense_id": expense.ID,
	}).Info("Successfully created expense")

	return &expense, nil
}
