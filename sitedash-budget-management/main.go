package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"sitedash/lib/api"
	"sitedash/lib/auth"
	"sitedash/lib/clients"
	"sitedash/lib/config"
	"sitedash/lib/data"
	"sitedash/lib/models"
	"sitedash/lib/screens"
	"sitedash/lib/util"
	"sitedash/lib/viewmodel"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Global variables for Lambda cold start optimization
var (
	logger        *logrus.Logger
	isLocal       bool
	ssmRepository data.SSMRepository
	cfg           *config.Config
	restClient    *clients.RESTClient
)

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
		"resource":  request.Resource,
	}).Info("Budget management request received")

	if _, err := auth.ExtractClaimsFromRequest(request); err != nil {
		logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	projectID, err := api.PathInt64(request, "projectId")
	if err != nil {
		return api.ErrorResponse(http.StatusBadRequest, "Invalid project ID", logger), nil
	}

	client := restClient.WithToken(auth.BearerToken(request))
	screen := screens.NewBudgetScreen(
		viewmodel.NewFetcher(client, cfg.FetchConcurrency, logger),
		data.NewExpenseDao(client, logger),
		projectID,
		logger,
	)
	defer screen.Close()

	switch {
	case request.HTTPMethod == http.MethodGet && request.Resource == "/projects/{projectId}/budget":
		return handleGetBudget(ctx, screen), nil
	case request.HTTPMethod == http.MethodPost && request.Resource == "/projects/{projectId}/expenses":
		return handleCreateExpense(ctx, screen, request.Body), nil
	default:
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil
	}
}

// handleGetBudget handles GET /projects/{projectId}/budget
func handleGetBudget(ctx context.Context, screen *screens.BudgetScreen) events.APIGatewayProxyResponse {
	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, view, logger)
}

// handleCreateExpense handles POST /projects/{projectId}/expenses and
// returns the budget view with the new expense merged in
func handleCreateExpense(ctx context.Context, screen *screens.BudgetScreen, body string) events.APIGatewayProxyResponse {
	var request models.CreateExpenseRequest
	if err := api.ParseJSONBody(body, &request); err != nil {
		logger.WithError(err).Error("Failed to parse create expense request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	if _, err := screen.CreateExpense(ctx, request); err != nil {
		return api.FailureResponse(err, logger)
	}

	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusCreated, view, logger)
}

func main() {
	lambda.Start(Handler)
}

func init() {
	isLocal, _ = strconv.ParseBool(os.Getenv("IS_LOCAL"))

	logger = logrus.New()
	util.SetLogLevel(logger, os.Getenv("LOG_LEVEL"))
	logger.SetFormatter(&logrus.JSONFormatter{
		PrettyPrint: isLocal,
	})
	config.LoadDotEnv(isLocal, logger)

	ssmRepository = &data.SSMDao{
		SSM:    clients.NewSSMClient(isLocal),
		Logger: logger,
	}
	ssmParams, err := ssmRepository.GetParameters(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("Error while getting ssm params from param store")
	}

	cfg, err = config.FromParameters(ssmParams)
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	restClient = clients.NewRESTClient(cfg.APIBaseURL, cfg.APITimeout, logger)

	logger.Info("Budget management Lambda initialized successfully")
}
