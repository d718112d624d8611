package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx answer from the construction API. The body is either
// a plain string, {"detail": "..."} or a {"field": ["message"]} validation map.
type APIError struct {
	StatusCode  int
	Detail      string
	FieldErrors map[string][]string
	RequestID   string
}

func (e *APIError) Error() string {
	if len(e.FieldErrors) > 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, strings.Join(e.FieldMessages(), "; "))
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// FieldMessages flattens field errors as "<field>: <message>" sorted by field
func (e *APIError) FieldMessages() []string {
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var messages []string
	for _, field := range fields {
		for _, message := range e.FieldErrors[field] {
			messages = append(messages, fmt.Sprintf("%s: %s", field, message))
		}
	}
	return messages
}

// RESTClient talks to the construction API using the {"data": ...} envelope
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRESTClient creates a client for baseURL. A zero timeout leaves the
// http.Client without a deadline; callers still bound requests by context.
func NewRESTClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// WithToken returns a copy that forwards the caller's bearer token
func (c *RESTClient) WithToken(token string) *RESTClient {
	clone := *c
	clone.token = token
	return &clone
}

// GetCollection fetches path and returns the raw envelope data
func (c *RESTClient) GetCollection(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}

// Get fetches path and decodes the envelope data into result
func (c *RESTClient) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.call(ctx, http.MethodGet, path, query, nil, result)
}

// Post creates a record
func (c *RESTClient) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.call(ctx, http.MethodPost, path, nil, body, result)
}

// Patch partially updates a record
func (c *RESTClient) Patch(ctx context.Context, path string, body, result interface{}) error {
	return c.call(ctx, http.MethodPatch, path, nil, body, result)
}

// Put replaces a record
func (c *RESTClient) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.call(ctx, http.MethodPut, path, nil, body, result)
}

func (c *RESTClient) call(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	data, err := c.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *RESTClient) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	fields := logrus.Fields{
		"operation":  "doRequest",
		"method":     method,
		"path":       path,
		"request_id": requestID,
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Warn("Request to construction API failed")
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	fields["status"] = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := ParseAPIError(resp.StatusCode, respBody)
		apiErr.RequestID = requestID
		c.logger.WithFields(fields).WithError(apiErr).Warn("Construction API returned an error")
		return nil, apiErr
	}

	c.logger.WithFields(fields).Debug("Construction API request completed")
	return unwrapEnvelope(respBody), nil
}

// unwrapEnvelope returns the "data" member, or the whole body when the
// response is not enveloped
func unwrapEnvelope(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return json.RawMessage(trimmed)
}

// ParseAPIError interprets an error body as a plain string, a detail object
// or a field validation map
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return apiErr
	}

	var decoded interface{}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		apiErr.Detail = string(trimmed)
		return apiErr
	}

	switch value := decoded.(type) {
	case string:
		apiErr.Detail = value
	case map[string]interface{}:
		if detail, ok := value["detail"].(string); ok {
			apiErr.Detail = detail
			return apiErr
		}
		for field, raw := range value {
			messages := fieldMessages(raw)
			if len(messages) == 0 {
				continue
			}
			if apiErr.FieldErrors == nil {
				apiErr.FieldErrors = map[string][]string{}
			}
			apiErr.FieldErrors[field] = messages
		}
	}
	return apiErr
}

func fieldMessages(raw interface{}) []string {
	switch value := raw.(type) {
	case string:
		return []string{value}
	case []interface{}:
		messages := make([]string, 0, len(value))
		for _, item := range value {
			if message, ok := item.(string); ok {
				messages = append(messages, message)
			}
		}
		return messages
	}
	return nil
}
