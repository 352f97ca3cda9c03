package commands

import (
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/config"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/satishbabariya/tableshim/internal/core/schema/parser"
	"github.com/satishbabariya/tableshim/internal/ui"
)

var defaultURLs = map[string]string{
	string(domain.SQLite):     "file:tableshim.db",
	string(domain.PostgreSQL): "postgres://localhost:5432/app?sslmode=disable",
	string(domain.MySQL):      "mysql://root@localhost:3306/app",
}

type initAnswers struct {
	Dialect     string `survey:"dialect"`
	DatabaseURL string `survey:"database_url"`
	SchemaPath  string `survey:"schema_path"`
}

func newInitCommand(app *App) *cobra.Command {
	var (
		yes     bool
		answers initAnswers
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file and a sample schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if answers.Dialect == "" {
				answers.Dialect = app.Config.Dialect
			}
			if answers.SchemaPath == "" {
				answers.SchemaPath = app.Config.SchemaPath
			}
			if !yes {
				if err := askInit(&answers); err != nil {
					return err
				}
			}
			if answers.DatabaseURL == "" {
				answers.DatabaseURL = defaultURLs[answers.Dialect]
			}

			cfg := *app.Config
			cfg.Dialect = answers.Dialect
			cfg.DatabaseURL = answers.DatabaseURL
			cfg.SchemaPath = answers.SchemaPath
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := app.ConfigFile
			if path == "" {
				path = config.FileName + ".yaml"
			}
			if err := config.Save(&cfg, path); err != nil {
				return err
			}
			app.Config = &cfg
			ui.Success("wrote %s", path)

			ctx := cmd.Context()
			exists, err := app.Storage.Exists(ctx, cfg.SchemaPath)
			if err != nil {
				return err
			}
			if exists {
				ui.Warning("%s already exists, leaving it alone", cfg.SchemaPath)
				return nil
			}
			text, err := parser.Format(sampleSchema())
			if err != nil {
				return err
			}
			if err := app.Storage.Write(ctx, cfg.SchemaPath, []byte(text)); err != nil {
				return err
			}
			ui.Success("wrote %s", cfg.SchemaPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept defaults without prompting")
	cmd.Flags().StringVar(&answers.Dialect, "dialect", "", "sqlite, postgres or mysql")
	cmd.Flags().StringVar(&answers.DatabaseURL, "database-url", "", "database connection url")
	cmd.Flags().StringVar(&answers.SchemaPath, "schema", "", "schema file to create")
	return cmd
}

func askInit(a *initAnswers) error {
	questions := []*survey.Question{
		{
			Name: "dialect",
			Prompt: &survey.Select{
				Message: "Database:",
				Options: []string{string(domain.SQLite), string(domain.PostgreSQL), string(domain.MySQL)},
				Default: a.Dialect,
			},
		},
		{
			Name:     "schema_path",
			Prompt:   &survey.Input{Message: "Schema file:", Default: a.SchemaPath},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(questions, a); err != nil {
		return err
	}

	if a.DatabaseURL == "" {
		return survey.AskOne(&survey.Input{
			Message: "Database URL:",
			Default: defaultURLs[a.Dialect],
		}, &a.DatabaseURL, survey.WithValidator(survey.Required))
	}
	return nil
}

func sampleSchema() *schema.Schema {
	books := schema.MustDefineTable("books",
		schema.Integer("id", schema.PrimaryKey()),
		schema.Text("title", schema.Default("")),
		schema.Boolean("deleted", schema.Nullable()),
		schema.Timestamp("lastModified", schema.Default(time.UnixMilli(0).UTC())),
	)
	s, _ := schema.NewSchema(books)
	return s
}
