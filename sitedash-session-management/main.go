package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"strconv"

	"sitedash/lib/api"
	"sitedash/lib/auth"
	"sitedash/lib/clients"
	"sitedash/lib/config"
	"sitedash/lib/data"
	"sitedash/lib/session"
	"sitedash/lib/util"

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
	}).Info("Session request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	if request.Resource != "/session" {
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil
	}

	switch request.HTTPMethod {
	case http.MethodGet:
		return handleGetSession(ctx, claims, auth.BearerToken(request)), nil
	case http.MethodDelete:
		return handleLogout(ctx, claims, auth.BearerToken(request)), nil
	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}
}

// handleGetSession handles GET /session and returns the signed-in user
func handleGetSession(ctx context.Context, claims *auth.Claims, token string) events.APIGatewayProxyResponse {
	user, err := sessionProvider.CurrentUser(ctx, claims, data.NewUserDao(restClient.WithToken(token), logger))
	if errors.Is(err, session.ErrNoSubject) {
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger)
	}
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, user, logger)
}

// handleLogout handles DELETE /session
func handleLogout(ctx context.Context, claims *auth.Claims, token string) events.APIGatewayProxyResponse {
	if err := sessionProvider.Logout(ctx, claims, token); err != nil {
		if errors.Is(err, session.ErrNoSubject) {
			return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger)
		}
		logger.WithFields(logrus.Fields{
			"operation": "handleLogout",
			"user_id":   claims.UserID,
		}).WithError(err).Error("Logout failed")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to sign out", logger)
	}
	return api.SuccessResponse(http.StatusOK, map[string]string{"message": "Signed out"}, logger)
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

	logger.Info("Session management Lambda initialized successfully")
}
