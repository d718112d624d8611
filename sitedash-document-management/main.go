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
	s3Client      clients.S3ClientInterface
)

// uploadURLRequest is the body of POST /documents/upload-url
type uploadURLRequest struct {
	DocumentType string `json:"document_type"`
	Filename     string `json:"filename"`
}

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
		"resource":  request.Resource,
	}).Info("Document management request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	projectID, err := api.QueryInt64(request, "project")
	if err != nil {
		return api.ErrorResponse(http.StatusBadRequest, "Invalid project ID", logger), nil
	}

	client := restClient.WithToken(auth.BearerToken(request))
	screen := screens.NewDocumentsScreen(
		viewmodel.NewFetcher(client, cfg.FetchConcurrency, logger),
		data.NewDocumentDao(client, logger),
		s3Client,
		session.FromClaims(claims),
		projectID,
		logger,
	)
	defer screen.Close()

	switch {
	case request.HTTPMethod == http.MethodGet && request.Resource == "/documents":
		return handleGetDocuments(ctx, screen), nil
	case request.HTTPMethod == http.MethodPost && request.Resource == "/documents":
		return handleCreateDocument(ctx, screen, request.Body), nil
	case request.HTTPMethod == http.MethodPost && request.Resource == "/documents/upload-url":
		return handleUploadURL(ctx, screen, request.Body), nil
	case request.HTTPMethod == http.MethodGet && request.Resource == "/documents/{documentId}/download-url":
		return handleDownloadURL(ctx, screen, request), nil
	default:
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil
	}
}

// handleGetDocuments handles GET /documents[?project=]
func handleGetDocuments(ctx context.Context, screen *screens.DocumentsScreen) events.APIGatewayProxyResponse {
	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, view, logger)
}

// handleCreateDocument handles POST /documents
func handleCreateDocument(ctx context.Context, screen *screens.DocumentsScreen, body string) events.APIGatewayProxyResponse {
	var request models.CreateDocumentRequest
	if err := api.ParseJSONBody(body, &request); err != nil {
		logger.WithError(err).Error("Failed to parse create document request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	if _, err := screen.CreateDocument(ctx, request); err != nil {
		return api.FailureResponse(err, logger)
	}

	view, err := screen.View()
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusCreated, view, logger)
}

// handleUploadURL handles POST /documents/upload-url
func handleUploadURL(ctx context.Context, screen *screens.DocumentsScreen, body string) events.APIGatewayProxyResponse {
	var request uploadURLRequest
	if err := api.ParseJSONBody(body, &request); err != nil {
		logger.WithError(err).Error("Failed to parse upload URL request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	upload, err := screen.UploadURL(ctx, request.DocumentType, request.Filename)
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, upload, logger)
}

// handleDownloadURL handles GET /documents/{documentId}/download-url
func handleDownloadURL(ctx context.Context, screen *screens.DocumentsScreen, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	documentID, err := api.PathInt64(request, "documentId")
	if err != nil {
		return api.ErrorResponse(http.StatusBadRequest, "Invalid document ID", logger)
	}

	if err := screen.Load(ctx); err != nil {
		return api.FailureResponse(err, logger)
	}
	link, err := screen.DownloadURL(ctx, documentID)
	if err != nil {
		return api.FailureResponse(err, logger)
	}
	return api.SuccessResponse(http.StatusOK, link, logger)
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
	s3Client = clients.NewS3Client(isLocal, cfg.DocumentsBucket)

	logger.Info("Document management Lambda initialized successfully")
}
