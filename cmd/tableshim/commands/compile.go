package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/adapters/storage"
	"github.com/satishbabariya/tableshim/internal/core/query/compiler"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/ui"
	"github.com/satishbabariya/tableshim/internal/watch"
)

func newCompileCommand(app *App) *cobra.Command {
	var (
		flags      queryFlags
		schemaFile string
		dialect    string
		ddl        bool
		watchFile  bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a statement to SQL and print it with its binds",
		Example: `  tableshim compile -t books -w id=1
  tableshim compile -t books -w id=1 -w id=2 --any
  tableshim compile -t books --insert id=2 --insert title=X --dialect postgres`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dialect == "" {
				dialect = app.Config.Dialect
			}
			d, ok := domain.ParseDialect(dialect)
			if !ok {
				return fmt.Errorf("unsupported dialect %q", dialect)
			}
			path := app.schemaPath([]string{schemaFile})
			c := compiler.NewSQLCompiler(d)

			run := func() error {
				s, err := app.loadSchema(cmd.Context(), path)
				if err != nil {
					return err
				}
				if ddl {
					t, err := s.Table(flags.table)
					if err != nil {
						return err
					}
					stmt, err := c.CreateTable(t)
					if err != nil {
						return err
					}
					ui.SQL(stmt, nil)
					return nil
				}
				node, err := flags.build(s)
				if err != nil {
					return err
				}
				q, err := c.Compile(node)
				if err != nil {
					return err
				}
				ui.SQL(q.SQL, q.Binds)
				return nil
			}

			if !watchFile {
				return run()
			}
			return watchSchema(cmd.Context(), app, path, run)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "schema file (default from config)")
	cmd.Flags().StringVar(&dialect, "dialect", "", "sqlite, postgres or mysql (default from config)")
	cmd.Flags().BoolVar(&ddl, "ddl", false, "print CREATE TABLE for --table instead of a query")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "recompile whenever the schema file changes")
	return cmd
}

// watchSchema reruns run on every schema change until interrupted. Only
// schemas on the local filesystem can be watched.
func watchSchema(ctx context.Context, app *App, path string, run func() error) error {
	fs, ok := app.Storage.(*storage.FS)
	if !ok {
		return fmt.Errorf("--watch needs filesystem storage")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.New(fs.Resolve(path), func() error {
		ui.Section("compiled from " + path)
		return run()
	})
	if err != nil {
		return err
	}
	ui.Info("watching %s, press Ctrl+C to stop", path)
	return w.Run(ctx, func(err error) { ui.Error("%v", err) })
}
