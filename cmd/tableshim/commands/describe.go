package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/satishbabariya/tableshim/internal/ui"
)

func newDescribeCommand(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "describe [schema]",
		Short: "Describe every table of a schema as markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.schemaPath(args)
			s, err := app.loadSchema(cmd.Context(), path)
			if err != nil {
				return err
			}

			md := describeSchema(path, s)
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			return ui.Markdown(md)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown source instead of rendering it")
	return cmd
}

func describeSchema(path string, s *schema.Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", path)

	for _, t := range s.Tables() {
		fmt.Fprintf(&b, "\n## %s\n\n", t.Name())
		b.WriteString("| column | codec | storage | nullable | primary key | default |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, col := range t.Columns() {
			def := ""
			if col.HasDefault {
				def = "`" + ui.FormatValue(col.Default) + "`"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				col.Name, col.Codec.Name(), col.StorageType(), yesNo(col.Nullable), yesNo(col.PrimaryKey), def)
		}
	}
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
