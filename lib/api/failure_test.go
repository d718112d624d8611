package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"sitedash/lib/clients"
	"sitedash/lib/viewmodel"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureResponse(t *testing.T) {
	validation := viewmodel.NewValidationError()
	validation.Add("role", "\"owner\" is not a valid choice.")

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"client validation", validation, http.StatusBadRequest, "Validation failed"},
		{"server validation", clients.ParseAPIError(http.StatusBadRequest, []byte(`{"unit":["This field is required."]}`)), http.StatusBadRequest, "Validation failed"},
		{"in flight", viewmodel.ErrSubmissionInFlight, http.StatusConflict, "A submission is already in progress"},
		{"transition", fmt.Errorf("material request 5 is approved: %w", viewmodel.ErrInvalidTransition), http.StatusConflict, "material request 5 is approved: invalid status transition"},
		{"not found", fmt.Errorf("material request 9: %w", viewmodel.ErrNotFound), http.StatusNotFound, "material request 9: record not found"},
		{"forbidden", clients.ParseAPIError(http.StatusForbidden, []byte(`{"detail":"You do not have permission to perform this action."}`)), http.StatusForbidden, "You do not have permission to perform this action."},
		{"upstream failure", clients.ParseAPIError(http.StatusInternalServerError, nil), http.StatusBadGateway, viewmodel.GenericFailureNotice},
		{"transport", errors.New("dial tcp: connection refused"), http.StatusBadGateway, viewmodel.GenericFailureNotice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			response := FailureResponse(tc.err, logrus.New())

			assert.Equal(t, tc.status, response.StatusCode)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestFailureResponse_ListsFieldMessages(t *testing.T) {
	err := clients.ParseAPIError(http.StatusBadRequest, []byte(`{"unit":["This field is required."],"quantity":["A valid number is required."]}`))

	response := FailureResponse(err, logrus.New())

	var body struct {
		Validation []string `json:"validation"`
	}
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Equal(t, []string{"quantity: A valid number is required.", "unit: This field is required."}, body.Validation)
}
