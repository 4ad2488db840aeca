package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/cmd/cli/commands"
	"github.com/logistica/presencas/internal/config"
	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/postgres"
	"github.com/logistica/presencas/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{Ctx: context.Background()}
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "presencas",
		Short:         "Presenças - daily attendance for logistics sectors",
		Long:          `Record, review and export daily worker attendance per sector and shift, by pay period (16th to 15th).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects presencas_config.<env>.yaml, .env.<env>, ...)")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.PeriodsCmd(app))
	rootCmd.AddCommand(commands.GridCmd(app))
	rootCmd.AddCommand(commands.MarkCmd(app))
	rootCmd.AddCommand(commands.VacationCmd(app))
	rootCmd.AddCommand(commands.WorkersCmd(app))
	rootCmd.AddCommand(commands.ImportCmd(app))
	rootCmd.AddCommand(commands.SeedCmd(app))
	rootCmd.AddCommand(commands.ReportCmd(app))
	rootCmd.AddCommand(commands.SummaryCmd(app))
	rootCmd.AddCommand(commands.DBCheckCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initApp sets up logger, config, secrets and the database connection
func initApp(cmd *cobra.Command) error {
	var err error
	app.Env = env

	if err := config.LoadDotEnv(env); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Debug("Starting application", zap.String("environment", env), zap.String("command", cmd.CommandPath()))

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if errors.Is(err, os.ErrNotExist) {
		app.Logger.Debug("No config file found, using defaults")
		app.Cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	model.StrictShifts = app.Cfg.StrictShifts

	app.Secrets, err = config.LoadSecretsWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	app.DBSettings, err = config.ResolveDatabase(app.Secrets, app.Cfg.Database, os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to resolve database settings: %w", err)
	}

	if cmd.Annotations[commands.SkipDatabase] == "true" {
		return nil
	}

	// Connect and bring the schema up to date
	app.Logger.Debug("Connecting to database", zap.String("target", app.DBSettings.Redacted()))
	database, err := postgres.NewDB(app.Ctx, app.DBSettings.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", app.DBSettings.Redacted(), err)
	}
	app.Database = database

	applied, err := database.RunMigrations(app.Ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.AppliedMigrations = applied
	if len(applied) > 0 {
		app.Logger.Info("Applied migrations", zap.Strings("files", applied))
	}

	return nil
}
