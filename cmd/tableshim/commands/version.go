package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/core/schema/parser"
	"github.com/satishbabariya/tableshim/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get(parser.SupportedVersions).FullString())
		},
	}
}
