package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Access-Control-Allow-Methods": "GET,POST,PUT,PATCH,DELETE,OPTIONS",
}

func headers() map[string]string {
	h := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		h[k] = v
	}
	return h
}

// SuccessResponse creates a successful API Gateway response
func SuccessResponse(statusCode int, data interface{}, logger *logrus.Logger) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal response data")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    headers(),
	}
}

// ErrorResponse creates an error API Gateway response
func ErrorResponse(statusCode int, message string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	errorData := map[string]interface{}{
		"error":   true,
		"message": message,
		"status":  statusCode,
	}

	body, err := json.Marshal(errorData)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal error response")
		body = []byte(`{"error":true,"message":"Internal server error","status":500}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    headers(),
	}
}

// ValidationErrorResponse creates a validation error response
func ValidationErrorResponse(message string, errors []string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	errorData := map[string]interface{}{
		"error":      true,
		"message":    message,
		"status":     http.StatusBadRequest,
		"validation": errors,
	}

	body, err := json.Marshal(errorData)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal validation error response")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusBadRequest,
		Body:       string(body),
		Headers:    headers(),
	}
}

// ParseJSONBody decodes a request body into target
func ParseJSONBody(body string, target interface{}) error {
	if body == "" {
		return errors.New("request body is empty")
	}
	if err := json.Unmarshal([]byte(body), target); err != nil {
		return fmt.Errorf("failed to parse request body: %w", err)
	}
	return nil
}

// PathInt64 reads a numeric path parameter
func PathInt64(request events.APIGatewayProxyRequest, name string) (int64, error) {
	raw, ok := request.PathParameters[name]
	if !ok || raw == "" {
		return 0, fmt.Errorf("missing path parameter %s", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid path parameter %s: %w", name, err)
	}
	return id, nil
}

// QueryInt64 reads an optional numeric query parameter, returning 0 when absent
func QueryInt64(request events.APIGatewayProxyRequest, name string) (int64, error) {
	raw, ok := request.QueryStringParameters[name]
	if !ok || raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid query parameter %s: %w", name, err)
	}
	return id, nil
}
