package screens

import (
	"context"
	"net/http"
	"testing"
	"time"

	"sitedash/lib/clients"
	"sitedash/lib/models"
	"sitedash/lib/viewmodel"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedBudgetScreen(t *testing.T, repo *MockExpenseRepository) (*BudgetScreen, *MockAPI) {
	api := NewMockAPI()
	api.responses["/projects/3/"] = `{"id":3,"name":"Tower A","status":"active","total_budget":1000000,"actual_cost":0}`
	api.responses["/expenses/"] = `[
		{"id":2,"project":3,"category":"materials","amount":300000,"date":"2024-03-08"},
		{"id":1,"project":3,"category":"labor","amount":150000,"date":"2024-03-01"}
	]`
	s := NewBudgetScreen(testFetcher(api), repo, 3, logrus.New())
	s.now = func() time.Time { return fixedNow }
	t.Cleanup(s.Close)
	require.NoError(t, s.Load(context.Background()))
	return s, api
}

func Test_BudgetScreen_SplitsMillionBudget(t *testing.T) {
	//Arrange
	s, api := loadedBudgetScreen(t, &MockExpenseRepository{})

	//Act
	view, err := s.View()

	//Assert
	require.NoError(t, err)
	assert.Equal(t, "3", api.Query("/expenses/").Get("project"))
	expected := map[string]int64{
		models.CategoryMaterials: 400000,
		models.CategoryLabor:     300000,
		models.CategoryEquipment: 200000,
		models.CategoryOverhead:  100000,
	}
	require.Len(t, view.Allocations, 4)
	for _, allocation := range view.Allocations {
		assert.True(t, decimal.NewFromInt(expected[allocation.Category]).Equal(allocation.Amount), allocation.Category)
	}

	require.Len(t, view.Categories, 4)
	assert.Equal(t, 75, view.Categories[0].Utilization.Percentage)
	assert.Equal(t, models.BandWarn, view.Categories[0].Utilization.ColorBand)
	assert.Equal(t, 50, view.Categories[1].Utilization.Percentage)
	assert.True(t, decimal.NewFromInt(450000).Equal(view.TotalSpent))
	assert.Equal(t, 45, view.Utilization.Percentage)
	assert.Equal(t, models.BandOK, view.Utilization.ColorBand)
}

func Test_BudgetScreen_CreateExpensePrepends(t *testing.T) {
	//Arrange
	repo := &MockExpenseRepository{created: &models.Expense{ID: 9, Project: 3, Category: models.CategoryEquipment, Amount: decimal.NewFromInt(5000)}}
	s, _ := loadedBudgetScreen(t, repo)

	//Act
	created, err := s.CreateExpense(context.Background(), models.CreateExpenseRequest{
		Category:    models.CategoryEquipment,
		Amount:      decimal.NewFromInt(5000),
		Description: "Crane rental",
	})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	require.Len(t, repo.requests, 1)
	assert.Equal(t, int64(3), repo.requests[0].Project)
	assert.Equal(t, "2024-03-10", repo.requests[0].Date.String())

	view, err := s.View()
	require.NoError(t, err)
	require.Len(t, view.Expenses, 3)
	assert.Equal(t, int64(9), view.Expenses[0].ID)
	assert.True(t, decimal.NewFromInt(455000).Equal(view.TotalSpent))
}

func Test_BudgetScreen_RejectedExpenseLeavesListUnchanged(t *testing.T) {
	repo := &MockExpenseRepository{err: clients.ParseAPIError(http.StatusBadRequest, []byte(`{"vendor":["Ensure this field has no more than 100 characters."]}`))}
	s, _ := loadedBudgetScreen(t, repo)

	_, err := s.CreateExpense(context.Background(), models.CreateExpenseRequest{
		Category:    models.CategoryLabor,
		Amount:      decimal.NewFromInt(10),
		Description: "Overtime",
	})

	require.Error(t, err)
	assert.Equal(t, "vendor: Ensure this field has no more than 100 characters.", viewmodel.FormatError(err))
	view, _ := s.View()
	assert.Len(t, view.Expenses, 2)
}

func Test_BudgetScreen_ValidatesBeforeSubmitting(t *testing.T) {
	repo := &MockExpenseRepository{}
	s, _ := loadedBudgetScreen(t, repo)

	_, err := s.CreateExpense(context.Background(), models.CreateExpenseRequest{Category: "fuel"})

	assert.Equal(t, []string{
		"amount: Ensure this value is greater than 0.",
		"category: \"fuel\" is not a valid choice.",
		"description: This field is required.",
	}, viewmodel.FieldMessages(err))
	assert.Empty(t, repo.requests)
}
