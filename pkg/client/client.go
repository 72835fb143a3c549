// Package client is the Go client for the AushadhiAI screening backend.
//
// A Client is constructed explicitly and passed to whoever needs it; there is
// no package-level instance.  Every method issues exactly one POST and never
// retries: callers decide what a failure means for them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/aushadhiai/screening-console/pkg/errors"
)

const Version = "0.1.0"

// DefaultBaseURL is the public screening backend.
const DefaultBaseURL = "https://api.aushadhiai.com"

// maxErrorSnippet bounds the response text kept on a status failure.
const maxErrorSnippet = 256

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a no-op implementation of Logger
type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Observer is notified once per backend call, after the outcome is known.
// statusCode is 0 when no response was received.
type Observer interface {
	Observe(endpoint string, statusCode int, duration time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) Observe(string, int, time.Duration, error) {}

// Client talks to the screening backend.  It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	headers    http.Header
	logger     Logger
	observer   Observer
}

// NewClient creates a client for the backend at baseURL.  An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidConfig, "invalid base URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, apperrors.InvalidConfig("base URL scheme must be http or https").WithDetail(baseURL)
	}
	if parsedURL.Host == "" {
		return nil, apperrors.InvalidConfig("base URL has no host").WithDetail(baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  fmt.Sprintf("aushadhi-console/%s", Version),
		headers:    make(http.Header),
		logger:     noopLogger{},
		observer:   noopObserver{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the normalised backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Post sends body as JSON to endpoint and decodes the response into out.
// out may be nil when the caller only needs the call to succeed.
func (c *Client) Post(ctx context.Context, endpoint Endpoint, body interface{}, out interface{}) error {
	return c.call(ctx, endpoint, body, func(raw []byte) error {
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		return json.Unmarshal(raw, out)
	})
}

// call performs one POST and hands the body of a 2xx response to decode.
// Every failure leaves as an *AppError wrapping a *RequestError.
func (c *Client) call(ctx context.Context, endpoint Endpoint, body interface{}, decode func([]byte) error) (err error) {
	requestID := uuid.New().String()
	start := time.Now()
	status := 0
	defer func() {
		c.observer.Observe(endpoint.Name(), status, time.Since(start), err)
	}()

	requestError := func(cause error) *RequestError {
		return &RequestError{
			Endpoint:   endpoint,
			StatusCode: status,
			RequestID:  requestID,
			Cause:      cause,
		}
	}
	fail := func(code apperrors.ErrorCode, msg string, cause error) *apperrors.AppError {
		return apperrors.Wrap(requestError(cause), code, msg)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint.Path(), bytes.NewReader(payload))
	if err != nil {
		return fail(apperrors.CodeUpstreamTransport, "failed to create request", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("POST %s failed: %v [request_id=%s]", endpoint.Path(), err, requestID)
		return fail(apperrors.CodeUpstreamTransport, "screening backend unreachable", err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(apperrors.CodeUpstreamTransport, "failed to read response body", err)
	}

	c.logger.Debugf("POST %s %d (%v) [request_id=%s]", endpoint.Path(), status, time.Since(start), requestID)

	if status < 200 || status > 299 {
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > maxErrorSnippet {
			n := maxErrorSnippet
			for n > 0 && !utf8.RuneStart(snippet[n]) {
				n--
			}
			snippet = snippet[:n]
		}
		c.logger.Errorf("POST %s returned %d: %s [request_id=%s]", endpoint.Path(), status, snippet, requestID)
		return fail(apperrors.CodeUpstreamStatus, "screening backend returned an error status", nil).WithDetail(snippet)
	}

	if err := decode(raw); err != nil {
		c.logger.Errorf("POST %s returned malformed data: %v [request_id=%s]", endpoint.Path(), err, requestID)
		return apperrors.MalformedData("screening backend returned malformed data").
			WithCause(requestError(err)).
			WithDetail(err.Error())
	}
	return nil
}
