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
	}).Info("User management request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	client := restClient.WithToken(auth.BearerToken(request))
	screen := screens.NewUsersScreen(
		viewmodel.NewFetcher(client, cfg.FetchConcurrency, logger),
		data.NewUserDao(client, logger),
		logger,
	)
	defer screen.Close()

	switch request.HTTPMethod {
	case http.MethodGet:
		if request.Resource == "/users" {
			return handleGetUsers(ctx, screen), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil

	case http.MethodPost:
		if request.Resource == "/users" {
			return handleCreateUser(ctx, screen, request.Body), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil

	case http.MethodPut:
		// PUT /users/{userId}
		if request.Resource == "/users/{userId}" {
			userID, err := api.PathInt64(request, "userId")
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid user ID", logger), nil
			}
			return handleUpdateUser(ctx, screen, userID, request.Body), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil

	case http.MethodPatch:
		// PATCH /users/{userId}/status
		if request.Resource == "/users/{userId}/status" {
			userID, err := api.PathInt64(request, "userId")
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid user ID", logger), nil
			}
			if userID == claims.UserID {
				return api.ErrorResponse(http.StatusBadRequest, "You cannot change your own status", logger), nil
			}
			return handleSetUserStatus(ctx, screen, userID, request.Body), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil

	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}
}

// respondWithView loads the screen, applies mutate when given and returns the view
func respondWithView(ctx context.Context, screen *screens.UsersScreen, status int, mutate func() error) events.APIGatewayProxyResponse {
	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	if mutate != nil {
		if err := mutate(); err != nil {
			return api.FailureResponse(err, logger)
		}
	}

	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(status, view, logger)
}

// handleGetUsers handles GET /users
func handleGetUsers(ctx context.Context, screen *screens.UsersScreen) events.APIGatewayProxyResponse {
	return respondWithView(ctx, screen, http.StatusOK, nil)
}

// handleCreateUser handles POST /users
func handleCreateUser(ctx context.Context, screen *screens.UsersScreen, body string) events.APIGatewayProxyResponse {
	var request models.CreateUserRequest
	if err := api.ParseJSONBody(body, &request); err != nil {
		logger.WithError(err).Error("Failed to parse create user request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	return respondWithView(ctx, screen, http.StatusCreated, func() error {
		_, err := screen.CreateUser(ctx, request)
		return err
	})
}

// handleUpdateUser handles PUT /users/{userId}
func handleUpdateUser(ctx context.Context, screen *screens.UsersScreen, userID int64, body string) events.APIGatewayProxyResponse {
	var request models.UpdateUserRequest
	if err := api.ParseJSONBody(body, &request); err != nil {
		logger.WithError(err).Error("Failed to parse update user request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	return respondWithView(ctx, screen, http.StatusOK, func() error {
		_, err := screen.UpdateUser(ctx, userID, request)
		return err
	})
}

// handleSetUserStatus handles PATCH /users/{userId}/status
func handleSetUserStatus(ctx context.Context, screen *screens.UsersScreen, userID int64, body string) events.APIGatewayProxyResponse {
	var request models.SetActiveRequest
	if err := api.ParseJSONBody(body, &request); err != nil {
		logger.WithError(err).Error("Failed to parse user status request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	return respondWithView(ctx, screen, http.StatusOK, func() error {
		_, err := screen.SetActive(ctx, userID, request.IsActive)
		return err
	})
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

	logger.Info("User management Lambda initialized successfully")
}
