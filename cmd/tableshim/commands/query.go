package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/query/executor"
	"github.com/satishbabariya/tableshim/internal/ui"
)

func newQueryCommand(app *App) *cobra.Command {
	var (
		flags      queryFlags
		schemaFile string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a statement against the configured database",
		Long: `Run a statement against the configured database. Selects print the
decoded rows; writes print the number of affected rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.loadSchema(ctx, app.schemaPath([]string{schemaFile}))
			if err != nil {
				return err
			}
			node, err := flags.build(s)
			if err != nil {
				return err
			}

			db, err := app.Connect(ctx, app.Config.Database())
			if err != nil {
				return err
			}
			defer db.Disconnect(ctx)

			ex := executor.New(db)
			sel, ok := node.(domain.Select)
			if !ok {
				n, err := ex.Exec(ctx, node)
				if err != nil {
					return err
				}
				ui.Success("%d rows affected", n)
				return nil
			}

			recs, err := ex.Query(ctx, sel)
			if err != nil {
				return err
			}
			columns := sel.Columns()
			rows := make([][]string, 0, len(recs))
			for _, rec := range recs {
				row := make([]string, len(columns))
				for i, c := range columns {
					row[i] = ui.FormatValue(rec[c])
				}
				rows = append(rows, row)
			}
			if err := ui.Table(columns, rows); err != nil {
				return err
			}
			ui.Info("%d rows", len(recs))
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "schema file (default from config)")
	return cmd
}
