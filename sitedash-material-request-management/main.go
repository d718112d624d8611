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
	"sitedash/lib/session"
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
	}).Info("Material request management request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	requestedBy, err := api.QueryInt64(request, "requested_by")
	if err != nil {
		return api.ErrorResponse(http.StatusBadRequest, "Invalid requested_by", logger), nil
	}

	client := restClient.WithToken(auth.BearerToken(request))
	screen := screens.NewMaterialRequestsScreen(
		viewmodel.NewFetcher(client, cfg.FetchConcurrency, logger),
		data.NewMaterialRequestDao(client, logger),
		session.FromClaims(claims),
		requestedBy,
		logger,
	)
	defer screen.Close()

	switch request.HTTPMethod {
	case http.MethodGet:
		// GET /material-requests[?requested_by=]
		if request.Resource == "/material-requests" {
			return handleGetMaterialRequests(ctx, screen), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil

	case http.MethodPost:
		// POST /material-requests - Submit a new request
		if request.Resource == "/material-requests" {
			return handleSubmitMaterialRequest(ctx, screen, request.Body), nil
		}

		// POST /material-requests/{requestId}/approve
		if request.Resource == "/material-requests/{requestId}/approve" {
			requestID, err := api.PathInt64(request, "requestId")
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid material request ID", logger), nil
			}
			return handleApproveMaterialRequest(ctx, screen, requestID), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil

	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}
}

// handleGetMaterialRequests handles GET /material-requests
func handleGetMaterialRequests(ctx context.Context, screen *screens.MaterialRequestsScreen) events.APIGatewayProxyResponse {
	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, view, logger)
}

// handleSubmitMaterialRequest handles POST /material-requests
func handleSubmitMaterialRequest(ctx context.Context, screen *screens.MaterialRequestsScreen, body string) events.APIGatewayProxyResponse {
	var form models.MaterialRequestForm
	if err := api.ParseJSONBody(body, &form); err != nil {
		logger.WithError(err).Error("Failed to parse material request form")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	if _, err := screen.Submit(ctx, form); err != nil {
		return api.FailureResponse(err, logger)
	}

	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusCreated, view, logger)
}

// handleApproveMaterialRequest handles POST /material-requests/{requestId}/approve
func handleApproveMaterialRequest(ctx context.Context, screen *screens.MaterialRequestsScreen, requestID int64) events.APIGatewayProxyResponse {
	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	if _, err := screen.Approve(ctx, requestID); err != nil {
		return api.FailureResponse(err, logger)
	}

	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, view, logger)
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

	logger.Info("Material request management Lambda initialized successfully")
}
