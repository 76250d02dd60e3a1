package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// NewExtensionCommand creates the extension command group.
func NewExtensionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "extension",
		Aliases: []string{"extensions", "ext"},
		Short:   "Manage extensions",
		Long:    "Look up extensions and add objects to them",
	}

	cmd.AddCommand(newExtensionGetCommand())
	cmd.AddCommand(newExtensionAddObjectCommand())

	return cmd
}

func newExtensionGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get EXTENSION_ID",
		Short: "Get extension details",
		Long:  "Display the extension registered for an app id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			extension, found, err := client.Extensions().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("%w: %s", constants.ErrExtensionNotFound, args[0])
			}

			return renderOutput(cmd.OutOrStdout(), extension, func(table *tablewriter.Table) error {
				return appendExtensionRows(table, extension)
			})
		},
	}
}

func newExtensionAddObjectCommand() *cobra.Command {
	var (
		data     string
		dataFile string
	)

	cmd := &cobra.Command{
		Use:   "add-object EXTENSION_ID",
		Short: "Add an object to an extension",
		Long: `Add an object line to an extension and print the object id assigned by the server.

The object is given as a JSON object with --data or read from --data-file.`,
		Example: `  bcext extension add-object 5d3b2c1a-... --data '{"objectType":"Table","name":"Customer Ext"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readObjectData(data, dataFile)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			objectID, err := client.Extensions().CreateObject(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}

			result := map[string]interface{}{
				"extension_id": args[0],
				"object_id":    objectID,
			}

			return renderOutput(cmd.OutOrStdout(), result, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")
				_ = table.Append([]string{"Extension ID", args[0]})

				return table.Append([]string{"Object ID", strconv.Itoa(objectID)})
			})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "object definition as a JSON object")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "file containing the object definition")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file")
	cmd.MarkFlagsOneRequired("data", "data-file")

	return cmd
}

// readObjectData loads the object definition from data or from dataFile.
func readObjectData(data, dataFile string) (json.RawMessage, error) {
	raw := []byte(data)

	if dataFile != "" {
		content, err := os.ReadFile(dataFile) // #nosec G304 -- file named by the user on the command line
		if err != nil {
			return nil, fmt.Errorf("reading object data: %w", err)
		}

		raw = content
	}

	if bcapi.JSONType(raw) != "object" || !json.Valid(raw) {
		return nil, constants.ErrInvalidObjectData
	}

	return json.RawMessage(raw), nil
}
