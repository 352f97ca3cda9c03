package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/satishbabariya/tableshim/internal/ui"
)

func newTranslateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "translate [schema]",
		Short: "Show the relational column types each table maps to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadSchema(cmd.Context(), app.schemaPath(args))
			if err != nil {
				return err
			}

			for _, t := range s.Tables() {
				rt, err := schema.ToRelational(t)
				if err != nil {
					return err
				}
				ui.Section(rt.Name)
				rows := make([][]string, 0, len(rt.Columns))
				for _, col := range rt.Columns {
					def := ""
					if col.HasDefault {
						def = ui.FormatValue(col.Default)
					}
					rows = append(rows, []string{
						col.Name,
						string(col.ColumnType),
						strconv.FormatBool(col.NotNull),
						strconv.FormatBool(col.Primary),
						def,
					})
				}
				if err := ui.Table([]string{"column", "type", "not null", "primary", "default"}, rows); err != nil {
					return fmt.Errorf("render %s: %w", rt.Name, err)
				}
			}
			return nil
		},
	}
}
