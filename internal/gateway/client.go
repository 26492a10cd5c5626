package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"TopicChat/internal/session"
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Status, e.Body)
}

// Message is the confirmation body returned by delete operations
type Message struct {
	Message string `json:"message"`
}

// Client performs entity operations against the backend REST API. Every call
// attaches the session store's token as a bearer credential when one is held;
// otherwise the call goes out unauthenticated. The client performs no retries
// and no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

// NewClient creates a gateway client for the backend at baseURL
func NewClient(baseURL string, timeout time.Duration, sess *session.Store, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
	}
}

// do issues one JSON request and decodes the response into result when
// non-nil. Non-2xx statuses become *APIError.
func (c *Client) do(ctx context.Context, span, method, path string, query url.Values, payload, result interface{}) error {
	ctx, sp := c.tracer.Start(ctx, span)
	defer sp.End()

	start := time.Now()

	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.session.BearerToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	duration := time.Since(start)
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(duration.Milliseconds()))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("request failed", "method", method, "path", path, "status", resp.Status)
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

func idQuery(id int64) url.Values {
	return url.Values{"id": []string{fmt.Sprint(id)}}
}

func userIDQuery(userID int64) url.Values {
	return url.Values{"user_id": []string{fmt.Sprint(userID)}}
}
