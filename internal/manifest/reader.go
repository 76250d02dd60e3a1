// Package manifest reads the app manifest describing the extension to provision.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// FileName is the manifest looked up in a workspace directory.
const FileName = "app.json"

// FileReader reads app.json from a workspace directory.
type FileReader struct {
	fileName string
}

// NewFileReader creates a reader for app.json.
func NewFileReader() *FileReader {
	return &FileReader{fileName: FileName}
}

// Path resolves the manifest location. A workspace that is itself a file is used as is.
func (r *FileReader) Path(workspace string) (string, error) {
	if workspace == "" {
		workspace = "."
	}

	info, err := os.Stat(workspace)
	if err != nil {
		return "", fmt.Errorf("%w: %w", constants.ErrManifestNotFound, err)
	}

	if info.IsDir() {
		return filepath.Join(workspace, r.fileName), nil
	}

	return workspace, nil
}

// Read loads the manifest. Only the JSON structure is checked; an empty id is left to the caller.
func (r *FileReader) Read(workspace string) (*bcapi.Manifest, error) {
	path, err := r.Path(workspace)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrManifestNotFound, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %w: %s", constants.ErrManifestNotFound, constants.ErrNotRegularFile, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is the user's own workspace manifest
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if bcapi.JSONType(data) != "object" {
		return nil, fmt.Errorf("%w: %s is not a JSON object", constants.ErrManifestMalformed, path)
	}

	var manifest bcapi.Manifest

	err = json.Unmarshal(data, &manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrManifestMalformed, err)
	}

	return &manifest, nil
}
