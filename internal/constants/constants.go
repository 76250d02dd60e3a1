package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration locations.
const (
	// ConfigDirName is the directory below the user's home holding the CLI configuration.
	ConfigDirName = ".bcext"

	// ConfigFileName is the configuration file name without extension.
	ConfigFileName = "config"

	// ConfigFileType is the configuration file format.
	ConfigFileType = "yml"

	// EnvPrefix prefixes environment variables that override configuration keys.
	EnvPrefix = "BCEXT"
)

// Configuration keys.
const (
	ConfigKeyAPIBaseURL  = "api_base_url"
	ConfigKeyAPIUsername = "api_username"
	ConfigKeyAPIPassword = "api_password"
	ConfigKeyOutput      = "output"
	ConfigKeyVerbose     = "verbose"
	ConfigKeyNoColor     = "no_color"
	ConfigKeyRetryMax    = "retry_max"
	ConfigKeyTimeout     = "timeout"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are disabled unless a caller opts in.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// HTTP status boundaries used when classifying responses.
const (
	// HTTPStatusOK is the lower bound of successful responses.
	HTTPStatusOK = 200

	// HTTPStatusMultipleChoices is the first status that is not a success.
	HTTPStatusMultipleChoices = 300

	// HTTPStatusInternalServerError is the first status treated as a transport failure.
	HTTPStatusInternalServerError = 500
)

// Pagination.
const (
	// StandardPageSize is the number of records requested per page when reading a whole collection.
	StandardPageSize = 50
)

// Extension field limits enforced by the server.
const (
	// MaxExtensionNameLength is the maximum length of an extension name.
	MaxExtensionNameLength = 50

	// MaxExtensionDescriptionLength is the maximum length of an extension description.
	MaxExtensionDescriptionLength = 250
)

// Format constants.
const (
	// FormatJSON selects JSON output.
	FormatJSON = "json"

	// FormatYAML selects YAML output.
	FormatYAML = "yaml"

	// FormatTable selects table output.
	FormatTable = "table"
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret replaces secrets in displayed configuration.
	MaskedSecret = "***"

	// JSONIndentSize is the indentation used for JSON output.
	JSONIndentSize = 2
)

// Validation and limits.
const (
	// MinimumArgumentCount is the number of arguments taken by "config set".
	MinimumArgumentCount = 2
)
