package client

import (
	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/internal/http"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// Client implements the bcapi.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     bcapi.Logger

	// Resource clients
	resources        *ResourceClient
	extensions       *ExtensionsClient
	assignableRanges *AssignableRangesClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *bcapi.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a client. It fails with a ConfigurationError before any request is made
// when the base URL, username, or password is missing.
func New(config *bcapi.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	credentials := &http.Credentials{
		Username: config.APIUsername,
		Password: config.APIPassword,
	}

	httpClient := http.NewClient(config.APIBaseURL, credentials, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    config.APIBaseURL,
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// Resources implements bcapi.Client.Resources.
func (c *Client) Resources() bcapi.ResourceClient {
	return c.resources
}

// Extensions implements bcapi.Client.Extensions.
func (c *Client) Extensions() bcapi.ExtensionsClient {
	return c.extensions
}

// AssignableRanges implements bcapi.Client.AssignableRanges.
func (c *Client) AssignableRanges() bcapi.AssignableRangesClient {
	return c.assignableRanges
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.resources = NewResourceClient(c.httpClient)
	c.extensions = NewExtensionsClient(c.resources)
	c.assignableRanges = NewAssignableRangesClient(c.resources)
}

// loggerAdapter adapts bcapi.Logger to http.Logger.
type loggerAdapter struct {
	logger bcapi.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
