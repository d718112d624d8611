package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"sitedash/lib/clients"
	"sitedash/lib/config"
	"sitedash/lib/data"
	"sitedash/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var (
	logger        *logrus.Logger
	isLocal       bool
	ssmRepository data.SSMRepository
	cfg           *config.Config
)

func handler(request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return preflight(request, cfg.AllowedOrigins), nil
}

// preflight answers an OPTIONS request for an allowed origin
func preflight(request events.APIGatewayProxyRequest, allowedOrigins []string) events.APIGatewayProxyResponse {
	requestOrigin, ok := request.Headers["origin"]
	if !ok {
		requestOrigin, ok = request.Headers["Origin"]
	}
	if !ok {
		logger.Warn("origin is not present in the request headers")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}
	}

	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || allowedOrigin == requestOrigin {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers: map[string]string{
					"Access-Control-Allow-Origin":      requestOrigin,
					"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Request-ID",
					"Access-Control-Allow-Methods":     "GET, PUT, DELETE, POST, OPTIONS, PATCH",
					"Access-Control-Allow-Credentials": "true",
				},
			}
		}
	}

	logger.WithField("origin", requestOrigin).Warn("Unauthorized origin")
	return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}
}

func main() {
	lambda.Start(handler)
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
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Fatal("Error while getting ssm params from param store")
	}

	cfg, err = config.FromParameters(ssmParams)
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}
}
