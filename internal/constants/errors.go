package constants

import "errors"

// Configuration errors.
var (
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrConfigValueNeeded = errors.New("a value is required for this configuration key")
)

// Manifest errors.
var (
	ErrManifestNotFound  = errors.New("valid app.json not found")
	ErrManifestMalformed = errors.New("app.json is malformed")
	ErrManifestIDMissing = errors.New("app.json does not declare an id")
)

// Workflow errors.
var (
	ErrProvisioningFailed = errors.New("provisioning failed")
	ErrInvalidObjectData  = errors.New("object data must be a JSON object")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrExtensionNotFound  = errors.New("extension not found")
	ErrUnknownOutput      = errors.New("unknown output format")
)

// File system errors.
var (
	ErrNotRegularFile = errors.New("path is not a regular file")
)
