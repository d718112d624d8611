package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"sitedash/lib/constants"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultAPITimeout       = 30 * time.Second
	defaultFetchConcurrency = 4
)

// DatabaseConfig holds the session store connection settings
type DatabaseConfig struct {
	Endpoint string
	Port     string
	Name     string
	Username string
	Password string
	SSLMode  string
}

// Config is the typed view over the /sitedash parameters
type Config struct {
	APIBaseURL       string
	APITimeout       time.Duration
	FetchConcurrency int
	DocumentsBucket  string
	UserPoolID       string
	AllowedOrigins   []string
	Database         DatabaseConfig
}

// LoadDotEnv reads a local .env file so IS_LOCAL runs don't need LocalStack SSM values
func LoadDotEnv(isLocal bool, logger *logrus.Logger) {
	if !isLocal {
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithError(err).WithField("operation", "LoadDotEnv").Warn("Failed to load .env file")
	}
}

// FromParameters builds a Config from SSM parameters. An environment variable
// named after the parameter's base name (API_BASE_URL, ...) overrides SSM.
func FromParameters(params map[string]string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:      value(params, constants.API_BASE_URL),
		DocumentsBucket: value(params, constants.DOCUMENTS_BUCKET),
		UserPoolID:      value(params, constants.COGNITO_USER_POOL_ID),
		AllowedOrigins:  splitList(value(params, constants.ALLOWED_ORIGINS)),
		Database: DatabaseConfig{
			Endpoint: value(params, constants.DATABASE_ENDPOINT),
			Port:     value(params, constants.DATABASE_PORT),
			Name:     value(params, constants.DATABASE_NAME),
			Username: value(params, constants.DATABASE_USERNAME),
			Password: value(params, constants.DATABASE_PASSWORD),
			SSLMode:  value(params, constants.SSL_MODE),
		},
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("%s is required", path.Base(constants.API_BASE_URL))
	}

	cfg.APITimeout = defaultAPITimeout
	if raw := value(params, constants.API_TIMEOUT_SECONDS); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid %s: %q", path.Base(constants.API_TIMEOUT_SECONDS), raw)
		}
		cfg.APITimeout = time.Duration(seconds) * time.Second
	}

	cfg.FetchConcurrency = defaultFetchConcurrency
	if raw := value(params, constants.FETCH_CONCURRENCY); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("invalid %s: %q", path.Base(constants.FETCH_CONCURRENCY), raw)
		}
		cfg.FetchConcurrency = limit
	}

	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "require"
	}

	return cfg, nil
}

func value(params map[string]string, key string) string {
	if env, ok := os.LookupEnv(path.Base(key)); ok {
		return strings.TrimSpace(env)
	}
	return strings.TrimSpace(params[key])
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
