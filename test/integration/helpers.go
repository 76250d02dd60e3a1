//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIBaseURL  string
	Username    string
	Password    string
	BcextPath   string
	AllowCreate bool
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIBaseURL:  os.Getenv("BCEXT_INTEGRATION_API_URL"),
		Username:    os.Getenv("BCEXT_INTEGRATION_USERNAME"),
		Password:    os.Getenv("BCEXT_INTEGRATION_PASSWORD"),
		BcextPath:   getBcextPath(),
		AllowCreate: os.Getenv("BCEXT_INTEGRATION_ALLOW_CREATE") == "true",
		Verbose:     os.Getenv("BCEXT_VERBOSE") == "true",
	}
}

// getBcextPath determines the path to the bcext binary
func getBcextPath() string {
	if path := os.Getenv("BCEXT_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../bcext",
		"./bcext",
		"../bcext",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "bcext" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIBaseURL == "" || config.Username == "" {
		t.Skip("BCEXT_INTEGRATION_API_URL or BCEXT_INTEGRATION_USERNAME not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BcextPath); err != nil {
		t.Skipf("bcext binary not found at %s, skipping integration test", config.BcextPath)
	}
}

// CommandRunner provides utilities for running bcext commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
	home   string
}

// NewCommandRunner creates a runner with an isolated home directory.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config: config,
		t:      t,
		home:   t.TempDir(),
	}
}

// Run executes a bcext command and returns output
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a bcext command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (string, string, error) {
	cmd := exec.Command(runner.config.BcextPath, args...) // #nosec G204 -- test binary

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = append(os.Environ(),
		"HOME="+runner.home,
		"BCEXT_API_BASE_URL="+runner.config.APIBaseURL,
		"BCEXT_API_USERNAME="+runner.config.Username,
		"BCEXT_API_PASSWORD="+runner.config.Password,
		"BCEXT_NO_COLOR=true",
	)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BcextPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a bcext command with JSON output and decodes stdout into target.
func (runner *CommandRunner) RunJSON(target interface{}, args ...string) {
	runner.t.Helper()

	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	require.NoError(runner.t, err, "stderr: %s", stderr)
	require.NoError(runner.t, json.Unmarshal([]byte(stdout), target), "stdout: %s", stdout)
}

// NewWorkspace writes an app.json with a fresh id and returns the workspace and the id.
func NewWorkspace(t *testing.T, name string) (string, string) {
	t.Helper()

	id := uuid.NewString()
	dir := t.TempDir()

	data, err := json.Marshal(map[string]string{
		"id":          id,
		"name":        name,
		"description": "Created by the bcext integration tests",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.json"), data, 0o600))

	return dir, id
}
