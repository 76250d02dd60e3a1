package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewRangesCommand creates the ranges command group.
func NewRangesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ranges",
		Aliases: []string{"range"},
		Short:   "Inspect assignable object ranges",
		Long:    "List the object ranges a new extension can be created in",
	}

	cmd.AddCommand(newRangesListCommand())

	return cmd
}

func newRangesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assignable ranges",
		Long:  "List every assignable object range, reading all pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ranges, err := client.AssignableRanges().ListAll(cmd.Context())
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), ranges, func(table *tablewriter.Table) error {
				table.Header("Code")

				for _, assignableRange := range ranges {
					err := table.Append([]string{assignableRange.Code})
					if err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}
