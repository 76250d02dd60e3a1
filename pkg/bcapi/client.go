package bcapi

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// ResourceClient exposes the generic resource-level operations.
type ResourceClient interface {
	PageReader

	// BuildURL composes the URL of a collection, an entity, or a bound action.
	BuildURL(resource, id, action string, query *PageQuery) string
	Read(ctx context.Context, resource, id string) (json.RawMessage, error)
	GetByFilter(ctx context.Context, resource, filter string) (json.RawMessage, bool, error)
	ReadAllPaged(ctx context.Context, resource, filter string) ([]json.RawMessage, error)
	Pages(ctx context.Context, resource, filter string) *PageIterator
	Create(ctx context.Context, resource string, payload interface{}) (json.RawMessage, error)
	InvokeAction(ctx context.Context, resource, id, action string, payload interface{}) (json.RawMessage, error)
}

// ExtensionsClient manages extension records.
type ExtensionsClient interface {
	// Get returns the extension with the given id. found is false when none exists.
	Get(ctx context.Context, id string) (extension *Extension, found bool, err error)
	Create(ctx context.Context, request *ExtensionCreateRequest) (*Extension, error)
	// CreateObject adds an object line to an extension and returns the assigned object id.
	CreateObject(ctx context.Context, extensionID string, payload interface{}) (int, error)
}

// AssignableRangesClient reads the ranges an extension can be created in.
type AssignableRangesClient interface {
	ListAll(ctx context.Context) ([]AssignableRange, error)
}

// Client is the entry point to the extension management API.
type Client interface {
	Resources() ResourceClient
	Extensions() ExtensionsClient
	AssignableRanges() AssignableRangesClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration.
//
// APIBaseURL, APIUsername and APIPassword are required; a client is never built from a
// partial configuration. Every request carries
// "Authorization: Basic base64(APIUsername:APIPassword)".
//
// Retries are off unless RetryMax is positive. When enabled, network failures, 429 and
// 5xx responses are retried with backoff between RetryWaitMin and RetryWaitMax.
type Config struct {
	// Required fields
	APIBaseURL  string
	APIUsername string
	APIPassword string

	// Optional configurations
	HTTPTimeout  time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Debug enables request/response logging when a Logger is provided.
	Debug     bool
	Logger    Logger
	UserAgent string
}

// Validate reports a ConfigurationError naming every missing required setting.
func (c *Config) Validate() error {
	if c == nil {
		return NewConfigurationError(ErrConfigRequired.Error())
	}

	var missing []string

	if strings.TrimSpace(c.APIBaseURL) == "" {
		missing = append(missing, "api url")
	}

	if c.APIUsername == "" {
		missing = append(missing, "name")
	}

	if c.APIPassword == "" {
		missing = append(missing, "password")
	}

	if len(missing) > 0 {
		return NewConfigurationError("provide api url, name and password in settings (missing " +
			strings.Join(missing, ", ") + ")")
	}

	return nil
}
