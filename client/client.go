// Package client provides the HTTP client for the quantum meeting
// intelligence API. It handles the bearer-token session, request building,
// and error decoding; typed methods for each API concern live in the
// *_client.go files alongside.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/quantum-ai/quantum-cli/config"
	qerrors "github.com/quantum-ai/quantum-cli/pkg/errors"
	"github.com/quantum-ai/quantum-cli/pkg/logging"
	"github.com/quantum-ai/quantum-cli/pkg/metrics"
)

// Default client settings.
const (
	DefaultTimeout = 30 * time.Second
)

// Client talks to the meeting intelligence API over HTTP/JSON.
// All requests share a single base URL and the session's bearer token.
type Client struct {
	baseURL string
	httpc   *http.Client
	session *Session
	options *Options

	logger  logging.Logger
	metrics *metrics.ClientMetrics
	tracer  trace.Tracer
}

// Options configures the Client behavior.
type Options struct {
	// Timeout is the per-request timeout applied via the HTTP client.
	Timeout time.Duration

	// Debug enables verbose request logging.
	Debug bool

	// HTTPClient overrides the underlying HTTP client (for tests).
	HTTPClient *http.Client

	// Logger receives request-level debug logs. Defaults to a no-op logger.
	Logger logging.Logger

	// Metrics records request counts and latencies. Optional.
	Metrics *metrics.ClientMetrics

	// TracerProvider supplies spans around requests. Defaults to no-op.
	TracerProvider trace.TracerProvider
}

// DefaultOptions returns Options with default values.
func DefaultOptions() *Options {
	return &Options{
		Timeout: DefaultTimeout,
	}
}

// NewClient creates a Client for the given base URL and session.
// A nil session gets an in-memory one; a nil opts gets DefaultOptions.
func NewClient(baseURL string, session *Session, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if session == nil {
		session = NewSession(nil, "")
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		session: session,
		options: opts,
		logger:  logger,
		metrics: opts.Metrics,
		tracer:  tp.Tracer("quantum-cli/client"),
	}
}

// FromConfig creates a Client from CLI configuration.
// This is the canonical way for commands to build a client.
func FromConfig(cfg *config.CLIConfig, session *Session, logger logging.Logger, m *metrics.ClientMetrics) *Client {
	opts := DefaultOptions()
	opts.Timeout = cfg.Timeout
	opts.Debug = cfg.Debug
	opts.Logger = logger
	opts.Metrics = m
	return NewClient(cfg.BaseURL, session, opts)
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestError is returned for non-2xx API responses. It carries the HTTP
// status and the server-supplied detail message when one was present.
type RequestError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// Detail is the server's error message, or a generic fallback when
	// the response body was not parseable.
	Detail string

	// Method and Path identify the failed request.
	Method string
	Path   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Detail, e.StatusCode)
}

// Unwrap maps the HTTP status to a domain sentinel so callers can use
// errors.Is checks.
func (e *RequestError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return qerrors.ErrUnauthorized
	case http.StatusNotFound:
		return qerrors.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return qerrors.ErrValidation
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return qerrors.ErrUnavailable
	}
	return nil
}

// IsRequestError reports whether err is a *RequestError and returns it.
func IsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// errorBody is the shape of API error responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// genericErrorMessage is used when the error body carries no detail.
const genericErrorMessage = "request failed"

// do issues a JSON request against the API. body is marshaled as JSON when
// non-nil; out receives the decoded response body when non-nil. A bearer
// token is attached iff the session holds one. Non-2xx responses become
// *RequestError. Failures are never retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, path, out)
}

// send executes a prepared request, attaching authorization and decoding the
// response. It is shared by do and the multipart upload path, which builds
// its own request so the transport can set the multipart boundary.
func (c *Client) send(req *http.Request, path string, out any) error {
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	ctx, span := c.tracer.Start(req.Context(), req.Method+" "+path,
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.path", path),
		))
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.observe(path, "error", elapsed)
		c.logger.Debug("request failed",
			logging.F("method", req.Method),
			logging.F("path", path),
			logging.Err(err))
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.observe(path, fmt.Sprintf("%d", resp.StatusCode), elapsed)
	c.logger.Debug("request completed",
		logging.F("method", req.Method),
		logging.F("path", path),
		logging.F("status", resp.StatusCode),
		logging.F("elapsed", elapsed.String()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(req.Method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

// decodeError builds a *RequestError from a non-2xx response. The server
// reports errors as {"detail": "..."}; anything else falls back to a generic
// message.
func (c *Client) decodeError(method, path string, resp *http.Response) error {
	detail := genericErrorMessage

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var eb errorBody
		if jsonErr := json.Unmarshal(data, &eb); jsonErr == nil && eb.Detail != "" {
			detail = eb.Detail
		}
	}

	return &RequestError{
		StatusCode: resp.StatusCode,
		Detail:     detail,
		Method:     method,
		Path:       path,
	}
}

// observe records request metrics if a collector is configured.
func (c *Client) observe(path, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveRequest(path, status, elapsed.Seconds())
}
