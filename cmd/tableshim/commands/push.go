package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/core/query/executor"
	"github.com/satishbabariya/tableshim/internal/ui"
)

func newPushCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push [schema]",
		Short: "Create the schema's tables in the configured database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.loadSchema(ctx, app.schemaPath(args))
			if err != nil {
				return err
			}

			db, err := app.Connect(ctx, app.Config.Database())
			if err != nil {
				return err
			}
			defer db.Disconnect(ctx)

			if err := executor.New(db).CreateTables(ctx, s); err != nil {
				return err
			}
			for _, t := range s.Tables() {
				ui.Info("  %s", t.Name())
			}
			ui.Success("pushed %d tables to %s", len(s.Tables()), db.Dialect())
			return nil
		},
	}
}
