package bcapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies every failure produced by the client and the provisioning workflow.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindInvalidManifest
	KindUnexpectedShape
	KindRemote
	KindTransport
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindInvalidManifest:
		return "InvalidManifest"
	case KindUnexpectedShape:
		return "UnexpectedShapeError"
	case KindRemote:
		return "RemoteError"
	case KindTransport:
		return "TransportError"
	case KindUnknown:
		return "UnknownError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// EmptyResponseMessage is the message of a RemoteError raised for a rejected request without a body.
const EmptyResponseMessage = "Empty response"

// Error is the tagged error returned by the client and the workflow.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface. Remote errors return the server message verbatim.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	if !ok {
		return false
	}

	if sentinel.Message != "" || sentinel.Err != nil || sentinel.StatusCode != 0 {
		return false
	}

	return sentinel.Kind == e.Kind
}

// Sentinels usable with errors.Is.
var (
	ErrConfiguration   = &Error{Kind: KindConfiguration}
	ErrInvalidManifest = &Error{Kind: KindInvalidManifest}
	ErrUnexpectedShape = &Error{Kind: KindUnexpectedShape}
	ErrRemote          = &Error{Kind: KindRemote}
	ErrTransport       = &Error{Kind: KindTransport}
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired = errors.New("config is required")
	ErrNoMoreItems    = errors.New("no more items")
)

// NewConfigurationError reports missing or invalid endpoint settings.
func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NewInvalidManifestError reports a missing manifest or a missing required manifest field.
func NewInvalidManifestError(message string, cause error) *Error {
	return &Error{Kind: KindInvalidManifest, Message: message, Err: cause}
}

// NewUnexpectedShapeError reports a response body that does not match the expected envelope.
func NewUnexpectedShapeError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnexpectedShape, Message: fmt.Sprintf(format, args...)}
}

// NewRemoteError reports a request the server rejected.
func NewRemoteError(statusCode int, message string) *Error {
	return &Error{Kind: KindRemote, StatusCode: statusCode, Message: message}
}

// NewTransportError reports a network failure or a server-side (5xx) failure.
func NewTransportError(statusCode int, message string, cause error) *Error {
	return &Error{Kind: KindTransport, StatusCode: statusCode, Message: message, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	bcErr := &Error{}
	if errors.As(err, &bcErr) {
		return bcErr.Kind
	}

	return KindUnknown
}

// IsConfiguration checks if the error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsInvalidManifest checks if the error is an invalid manifest error.
func IsInvalidManifest(err error) bool {
	return errors.Is(err, ErrInvalidManifest)
}

// IsUnexpectedShape checks if the error is an unexpected response shape error.
func IsUnexpectedShape(err error) bool {
	return errors.Is(err, ErrUnexpectedShape)
}

// IsRemote checks if the error is a remote error.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsTransport checks if the error is a transport error.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// ErrorDetail is the body of an OData error envelope.
type ErrorDetail struct {
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Message string `json:"message"        yaml:"message"`
}

// ErrorResponse is the `{ "error": { ... } }` envelope returned for rejected requests.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ParseErrorResponse parses an error envelope. It returns false when data is not one.
func ParseErrorResponse(data []byte) (*ErrorDetail, bool) {
	var errResp ErrorResponse

	err := json.Unmarshal(data, &errResp)
	if err != nil || errResp.Error == nil {
		return nil, false
	}

	return errResp.Error, true
}

// JSONType names the JSON type of a raw value for error messages.
func JSONType(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "empty"
	}

	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}
