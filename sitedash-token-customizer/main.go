// Package main implements the Cognito Pre Token Generation V2.0 trigger.
//
// It stamps the construction API identity (user_id, role) onto ID and access
// tokens so the management lambdas can read it from the authorizer claims.
// Failures never block sign-in; the token is issued without custom claims.
package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"

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
	sqlDB           *sql.DB
	sessionProvider *session.Provider
)

var validTriggerSources = map[string]bool{
	"TokenGeneration_HostedAuth":           true,
	"TokenGeneration_Authentication":       true,
	"TokenGeneration_NewPasswordChallenge": true,
	"TokenGeneration_AuthenticateDevice":   true,
	"TokenGeneration_RefreshTokens":        true,
}

func Handler(ctx context.Context, event events.CognitoEventUserPoolsPreTokenGenV2_0) (events.CognitoEventUserPoolsPreTokenGenV2_0, error) {
	fields := logrus.Fields{
		"operation":      "Handler",
		"trigger_source": event.TriggerSource,
		"username":       event.UserName,
	}

	if !validTriggerSources[event.TriggerSource] {
		logger.WithFields(fields).Warn("Invalid trigger source for V2.0, returning event unchanged")
		return event, nil
	}

	subject := event.Request.UserAttributes["sub"]
	if subject == "" {
		subject = event.UserName
	}

	claims, err := sessionProvider.TokenClaims(ctx, subject, event.Request.UserAttributes)
	if err != nil {
		level := logrus.ErrorLevel
		if errors.Is(err, session.ErrNoIdentity) {
			level = logrus.WarnLevel
		}
		logger.WithFields(fields).WithError(err).Log(level, "Proceeding without custom claims")
		return event, nil
	}

	claimsToAdd := claims.Map()
	event.Response.ClaimsAndScopeOverrideDetails = events.ClaimsAndScopeOverrideDetailsV2_0{
		IDTokenGeneration: events.IDTokenGenerationV2_0{
			ClaimsToAddOrOverride: claimsToAdd,
			ClaimsToSuppress:      []string{},
		},
		AccessTokenGeneration: events.AccessTokenGenerationV2_0{
			ClaimsToAddOrOverride: claimsToAdd,
			ClaimsToSuppress:      []string{},
			ScopesToAdd:           []string{},
			ScopesToSuppress:      []string{},
		},
		GroupOverrideDetails: events.GroupConfigurationV2_0{
			GroupsToOverride:   claims.Groups(),
			IAMRolesToOverride: []string{},
		},
	}

	fields["user_id"] = claims.UserID
	fields["role"] = claims.Role
	logger.WithFields(fields).Debug("Added custom claims to token")

	return event, nil
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

	cfg, err := config.FromParameters(ssmParams)
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

	sessionProvider = session.NewProvider(
		data.NewSessionDao(sqlDB, logger),
		clients.NewCognitoClient(isLocal),
		logger,
	)
}
