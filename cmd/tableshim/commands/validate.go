package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/ui"
)

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [schema]",
		Short: "Parse a schema file and report its tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.schemaPath(args)
			s, err := app.loadSchema(cmd.Context(), path)
			if err != nil {
				return err
			}

			for _, t := range s.Tables() {
				ui.Info("  %s (%d columns)", t.Name(), len(t.Columns()))
			}
			ui.Success("%s is valid: %d tables", path, len(s.Tables()))
			return nil
		},
	}
}
