package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
	"github.com/fivetwenty-io/bcext/pkg/bcclient"
)

// BuildClientConfig assembles the client configuration from flags, environment and the config file.
func BuildClientConfig(logOutput io.Writer) *bcapi.Config {
	verbose := viper.GetBool(constants.ConfigKeyVerbose)

	return &bcapi.Config{
		APIBaseURL:  viper.GetString(constants.ConfigKeyAPIBaseURL),
		APIUsername: viper.GetString(constants.ConfigKeyAPIUsername),
		APIPassword: viper.GetString(constants.ConfigKeyAPIPassword),
		HTTPTimeout: viper.GetDuration(constants.ConfigKeyTimeout),
		RetryMax:    viper.GetInt(constants.ConfigKeyRetryMax),
		Debug:       verbose,
		Logger:      NewLogger(logOutput, verbose),
		UserAgent:   "bcext/" + Version,
	}
}

// CreateClient creates an API client from the current configuration. Log records go to logOutput.
func CreateClient(logOutput io.Writer) (bcapi.Client, error) {
	return bcclient.New(BuildClientConfig(logOutput))
}

// outputFormat returns the selected output format.
func outputFormat() string {
	format := viper.GetString(constants.ConfigKeyOutput)
	if format == "" {
		return constants.FormatTable
	}

	return format
}

// renderOutput writes value as JSON or YAML, or calls renderTable for table output.
func renderOutput(writer io.Writer, value interface{}, renderTable func(*tablewriter.Table) error) error {
	switch format := outputFormat(); format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(writer)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(value)
	case constants.FormatTable:
		table := tablewriter.NewWriter(writer)

		err := renderTable(table)
		if err != nil {
			return err
		}

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownOutput, format)
	}
}

// valueOrNA returns value, or N/A when it is empty.
func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
