package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strconv"

	"sitedash/lib/api"
	"sitedash/lib/auth"
	"sitedash/lib/clients"
	"sitedash/lib/config"
	"sitedash/lib/data"
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
	logger          *logrus.Logger
	isLocal         bool
	ssmRepository   data.SSMRepository
	cfg             *config.Config
	sqlDB           *sql.DB
	restClient      *clients.RESTClient
	sessionProvider *session.Provider
)

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
		"resource":  request.Resource,
	}).Info("Dashboard request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	if request.HTTPMethod != http.MethodGet {
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}

	client := restClient.WithToken(auth.BearerToken(request))
	fetcher := viewmodel.NewFetcher(client, cfg.FetchConcurrency, logger)

	switch request.Resource {
	case "/dashboard/admin":
		return handleAdminDashboard(ctx, fetcher), nil
	case "/dashboard/subcontractor":
		return handleSubcontractorDashboard(ctx, claims, client, fetcher), nil
	default:
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil
	}
}

// handleAdminDashboard handles GET /dashboard/admin
func handleAdminDashboard(ctx context.Context, fetcher *viewmodel.Fetcher) events.APIGatewayProxyResponse {
	dashboard := screens.NewAdminDashboard(fetcher, logger)
	defer dashboard.Close()

	if err := dashboard.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	view, err := dashboard.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, view, logger)
}

// handleSubcontractorDashboard handles GET /dashboard/subcontractor for the caller
func handleSubcontractorDashboard(ctx context.Context, claims *auth.Claims, client *clients.RESTClient, fetcher *viewmodel.Fetcher) events.APIGatewayProxyResponse {
	user, err := sessionProvider.CurrentUser(ctx, claims, data.NewUserDao(client, logger))
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "handleSubcontractorDashboard",
			"user_id":   claims.UserID,
		}).WithError(err).Warn("Falling back to authorizer identity")
		fallback := session.FromClaims(claims)
		user = &fallback
	}

	dashboard := screens.NewSubcontractorDashboard(fetcher, *user, logger)
	defer dashboard.Close()

	if err := dashboard.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	view, err := dashboard.View()
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

	sqlDB, err = clients.NewPostgresSQLClient(
		cfg.Database.Endpoint,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.SSLMode,
	)
	if err != nil {
		logger.WithError(err).Fatal("Error creating PostgreSQL client")
	}

	restClient = clients.NewRESTClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	sessionProvider = session.NewProvider(
		data.NewSessionDao(sqlDB, logger),
		clients.NewCognitoClient(isLocal),
		logger,
	)

	logger.Info("Dashboard management Lambda initialized successfully")
}
