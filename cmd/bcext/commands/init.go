package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/internal/manifest"
	"github.com/fivetwenty-io/bcext/internal/provision"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
	"github.com/fivetwenty-io/bcext/pkg/bcclient"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [WORKSPACE]",
		Short: "Initialize the extension for an app",
		Long: `Create the extension record for the app whose app.json is in WORKSPACE
(default: the current directory).

If an extension with the app's id already exists nothing is created. Otherwise
you are asked to pick one of the assignable object ranges and the extension is
created in it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	workspace := "."
	if len(args) > 0 {
		workspace = args[0]
	}

	config := BuildClientConfig(cmd.ErrOrStderr())

	client, err := bcclient.New(config)
	if err != nil {
		return err
	}

	notifier := NewConsoleNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr(), viper.GetBool(constants.ConfigKeyNoColor))
	prompter := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	workflow := provision.New(client, manifest.NewFileReader(), prompter, notifier, provision.WithLogger(config.Logger))

	result, err := workflow.Run(cmd.Context(), workspace)
	if err != nil {
		// The notifier has already shown the cause.
		return fmt.Errorf("%w: %s", constants.ErrProvisioningFailed, result.Reason)
	}

	if result.Extension == nil || outputFormat() == constants.FormatTable {
		return nil
	}

	return renderOutput(cmd.OutOrStdout(), result.Extension, func(table *tablewriter.Table) error {
		return appendExtensionRows(table, result.Extension)
	})
}

func appendExtensionRows(table *tablewriter.Table, extension *bcapi.Extension) error {
	table.Header("Property", "Value")

	rows := [][]string{
		{"ID", extension.ID},
		{"Code", valueOrNA(extension.Code)},
		{"Range", valueOrNA(extension.RangeCode)},
		{"Name", valueOrNA(extension.Name)},
		{"Description", valueOrNA(extension.Description)},
	}

	for _, row := range rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	return nil
}
