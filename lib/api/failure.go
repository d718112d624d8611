package api

import (
	"context"
	"errors"
	"net/http"

	"sitedash/lib/clients"
	"sitedash/lib/viewmodel"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// FailureResponse maps a screen load or write failure onto a response.
// Field errors become a validation response; upstream auth and lookup
// failures keep their status; everything else is a 502 with the
// user-facing message.
func FailureResponse(err error, logger *logrus.Logger) events.APIGatewayProxyResponse {
	if messages := viewmodel.FieldMessages(err); len(messages) > 0 {
		return ValidationErrorResponse("Validation failed", messages, logger)
	}

	switch {
	case errors.Is(err, viewmodel.ErrSubmissionInFlight):
		return ErrorResponse(http.StatusConflict, "A submission is already in progress", logger)
	case errors.Is(err, viewmodel.ErrInvalidTransition):
		return ErrorResponse(http.StatusConflict, err.Error(), logger)
	case errors.Is(err, viewmodel.ErrNotFound):
		return ErrorResponse(http.StatusNotFound, err.Error(), logger)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorResponse(http.StatusGatewayTimeout, viewmodel.GenericFailureNotice, logger)
	}

	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusConflict:
			return ErrorResponse(apiErr.StatusCode, viewmodel.FormatError(err), logger)
		}
	}

	logger.WithError(err).Error("Request failed")
	return ErrorResponse(http.StatusBadGateway, viewmodel.FormatError(err), logger)
}
