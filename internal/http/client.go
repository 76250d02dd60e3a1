package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Credentials are sent as a Basic authorization header on every request.
type Credentials struct {
	Username string
	Password string
}

// Header returns the Authorization header value.
func (c *Credentials) Header() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))

	return "Basic " + token
}

// Request describes a request relative to the client's base URL.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Body     interface{}
	Headers  map[string]string
}

// Response holds the status and fully read body of a response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is an HTTP client bound to one API endpoint and one set of credentials.
type Client struct {
	baseURL       string
	authorization string
	httpClient    *retryablehttp.Client
	logger        Logger
	debug         bool
	userAgent     string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables retries of network failures, 429 and 5xx responses.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// NewClient creates a client for baseURL. A nil credentials value sends no Authorization header.
func NewClient(baseURL string, credentials *Credentials, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// The final response is classified by the caller, including 5xx after retries run out.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    baseURL,
		httpClient: retryClient,
		userAgent:  "bcext/1.0",
	}

	if credentials != nil {
		client.authorization = credentials.Header()
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the endpoint the client was created for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// JoinURL appends path to base with exactly one slash between them and adds rawQuery if set.
func JoinURL(base, path, rawQuery string) string {
	url := base
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}

	url += strings.TrimPrefix(path, "/")

	if rawQuery != "" {
		url += "?" + rawQuery
	}

	return url
}

// Do sends req. Responses outside [200,300) come back together with a *bcapi.Error:
// a RemoteError below 500 and a TransportError from 500 on. Network failures are
// TransportErrors with a nil response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var (
		rawBody interface{}
		body    []byte
	)

	if req.Body != nil {
		var err error

		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		rawBody = body
	}

	url := JoinURL(c.baseURL, req.Path, req.RawQuery)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, url, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if c.authorization != "" {
		httpReq.Header.Set("Authorization", c.authorization)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    url,
			"body":   string(body),
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, bcapi.NewTransportError(0, fmt.Sprintf("%s %s failed", req.Method, url), err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, bcapi.NewTransportError(httpResp.StatusCode, "reading response body", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": httpResp.StatusCode,
			"body":   string(respBody),
		})
	}

	return resp, classify(resp)
}

// classify maps a response onto the error taxonomy.
func classify(resp *Response) error {
	status := resp.StatusCode

	switch {
	case status >= constants.HTTPStatusOK && status < constants.HTTPStatusMultipleChoices:
		return nil
	case status >= constants.HTTPStatusInternalServerError:
		return bcapi.NewTransportError(status, fmt.Sprintf("server error (status %d)", status),
			remoteCause(resp))
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return bcapi.NewRemoteError(status, bcapi.EmptyResponseMessage)
	}

	if detail, ok := bcapi.ParseErrorResponse(resp.Body); ok {
		return bcapi.NewRemoteError(status, detail.Message)
	}

	return bcapi.NewRemoteError(status, strings.TrimSpace(string(resp.Body)))
}

// remoteCause keeps the server's explanation of a 5xx failure, if it sent one.
func remoteCause(resp *Response) error {
	if detail, ok := bcapi.ParseErrorResponse(resp.Body); ok {
		return errors.New(detail.Message)
	}

	return nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path, rawQuery string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:   http.MethodGet,
		Path:     path,
		RawQuery: rawQuery,
	})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
