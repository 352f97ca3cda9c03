// Package commands implements the tableshim CLI.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/adapters/database"
	"github.com/satishbabariya/tableshim/internal/adapters/storage"
	"github.com/satishbabariya/tableshim/internal/config"
	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/satishbabariya/tableshim/internal/core/schema/parser"
	"github.com/satishbabariya/tableshim/internal/debug"
	"github.com/satishbabariya/tableshim/internal/ui"
	"github.com/satishbabariya/tableshim/internal/version"
)

// App is the state shared by every command. Fields left nil are filled in
// before a command runs.
type App struct {
	ConfigFile string
	Debug      bool

	Config   *config.Config
	Storage  storage.Storage
	Registry *codec.Registry
	// Connect opens the database; tests replace it.
	Connect func(ctx context.Context, cfg database.Config) (database.Adapter, error)
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tableshim",
		Short:         "Typed table schemas and SQL query compilation",
		Version:       version.Get(parser.SupportedVersions).String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Out = cmd.OutOrStdout()
			ui.Err = cmd.ErrOrStderr()
			return app.setup()
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "config file (default .tableshim.yaml)")
	root.PersistentFlags().BoolVar(&app.Debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newInitCommand(app),
		newValidateCommand(app),
		newDescribeCommand(app),
		newTranslateCommand(app),
		newCompileCommand(app),
		newPushCommand(app),
		newQueryCommand(app),
		newVersionCommand(),
	)
	return root
}

func (a *App) setup() error {
	if a.Config == nil {
		cfg, err := config.Load(a.ConfigFile)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	debug.Init(a.Debug || a.Config.Debug)

	if a.Storage == nil {
		a.Storage = storage.NewFilesystemStorage(".")
	}
	if a.Registry == nil {
		a.Registry = codec.NewRegistry()
	}
	if a.Connect == nil {
		a.Connect = connect
	}
	return nil
}

func connect(ctx context.Context, cfg database.Config) (database.Adapter, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schemaPath returns the first positional argument or the configured path.
func (a *App) schemaPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.Config.SchemaPath
}

func (a *App) loadSchema(ctx context.Context, path string) (*schema.Schema, error) {
	return parser.Load(ctx, a.Storage, path, a.Registry)
}
