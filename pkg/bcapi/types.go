package bcapi

// Resource collections exposed by the extension management API.
const (
	ResourceExtensions            = "extensions"
	ResourceExtensionObjects      = "extensionObjects"
	ResourceExtensionObjectFields = "extensionObjectFields"
	ResourceAssignableRanges      = "assignableRanges"
)

// ActionNamespace prefixes bound action names in request paths.
const ActionNamespace = "Microsoft.NAV"

// Bound actions.
const (
	ActionCreateLine = "createLine"
)

// Manifest describes the local app that should be provisioned as an extension.
type Manifest struct {
	ID          string `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Extension is the server-side record of a provisioned app.
type Extension struct {
	ID          string `json:"id"          yaml:"id"`
	Code        string `json:"code"        yaml:"code"`
	RangeCode   string `json:"rangeCode"   yaml:"rangeCode"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ExtensionCreateRequest is the payload for creating an extension.
type ExtensionCreateRequest struct {
	ID          string `json:"id"          yaml:"id"`
	RangeCode   string `json:"rangeCode"   yaml:"rangeCode"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// AssignableRange identifies an object id range an extension can be created in.
type AssignableRange struct {
	Code string `json:"code" yaml:"code"`
}

// ListResponse is the `{ "value": [...] }` envelope of collection reads.
type ListResponse[T any] struct {
	Value []T `json:"value" yaml:"value"`
}
