package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRESTClient(server.URL+"/api/", 5*time.Second, logrus.New())
}

func TestRESTClient_GetCollectionUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/expenses/", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("project"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"id":1},{"id":2}]}`))
	}).WithToken("abc")

	data, err := client.GetCollection(context.Background(), "/expenses/", url.Values{"project": {"3"}})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(data))
}

func TestRESTClient_AcceptsBareBodies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":9}]`))
	})

	var result []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, client.Get(context.Background(), "/projects/", nil, &result))
	require.Len(t, result, 1)
	assert.Equal(t, int64(9), result[0].ID)
}

func TestRESTClient_PostSendsJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "Cement", payload["material_description"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":42}}`))
	})

	var created struct {
		ID int64 `json:"id"`
	}
	err := client.Post(context.Background(), "/material-requests/", map[string]string{"material_description": "Cement"}, &created)

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
}

func TestRESTClient_ValidationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"material_description":["This field is required."]}`))
	})

	err := client.Post(context.Background(), "/material-requests/", map[string]string{}, nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, []string{"material_description: This field is required."}, apiErr.FieldMessages())
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestRESTClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewRESTClient(server.URL, time.Second, logrus.New())
	server.Close()

	_, err := client.GetCollection(context.Background(), "/projects/", nil)

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestParseAPIError(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		detail string
		fields []string
	}{
		{name: "empty", body: ""},
		{name: "plain text", body: "Service Unavailable", detail: "Service Unavailable"},
		{name: "json string", body: `"Project is locked"`, detail: "Project is locked"},
		{name: "detail", body: `{"detail":"Not found."}`, detail: "Not found."},
		{
			name:   "field map",
			body:   `{"unit":"Required.","quantity":["Must be positive.","Too large."]}`,
			fields: []string{"quantity: Must be positive.", "quantity: Too large.", "unit: Required."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := ParseAPIError(http.StatusBadRequest, []byte(tc.body))
			assert.Equal(t, tc.detail, apiErr.Detail)
			assert.Equal(t, tc.fields, apiErr.FieldMessages())
		})
	}
}
