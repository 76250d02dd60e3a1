package commands

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/internal/testutil"
)

// useViper resets the global viper state for the test and applies values.
// Tests calling it must not run in parallel.
func useViper(t *testing.T, values map[string]interface{}) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	for key, value := range values {
		viper.Set(key, value)
	}
}

// useFakeAPI points the configuration at api.
func useFakeAPI(t *testing.T, api *testutil.FakeAPI, extra map[string]interface{}) {
	t.Helper()

	config := api.Config()
	values := map[string]interface{}{
		constants.ConfigKeyAPIBaseURL:  config.APIBaseURL,
		constants.ConfigKeyAPIUsername: config.APIUsername,
		constants.ConfigKeyAPIPassword: config.APIPassword,
		constants.ConfigKeyNoColor:     true,
	}

	for key, value := range extra {
		values[key] = value
	}

	useViper(t, values)
}

// executeCommand runs cmd with args and input, returning stdout and stderr.
func executeCommand(cmd *cobra.Command, input io.Reader, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)
	cmd.SetIn(input)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}
