package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/cmd/cli/commands"
	"github.com/jakechorley/shift-planner/internal/config"
	"github.com/jakechorley/shift-planner/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	logDir  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &commands.AppContext{Ctx: ctx}

	rootCmd := &cobra.Command{
		Use:   "shift-planner",
		Short: "Shift Planner CLI - Build and check shift schedules",
		Long: `A CLI tool for solving shift rosters, checking schedules against their hard
rules, and syncing requests and schedules with Google Sheets.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (test, prod, etc.); selects shift_planner_config.<env>.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "logs", "Directory for log files")

	rootCmd.AddCommand(commands.PlanCmd(app))
	rootCmd.AddCommand(commands.CheckCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.ImportRequestsCmd(app))
	rootCmd.AddCommand(commands.ViewRunsCmd(app))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		app.Close()
		os.Exit(1)
	}
}

// initApp sets up the logger and configuration. Clients and the database are
// opened by the commands that need them.
func initApp(app *commands.AppContext) error {
	var err error
	app.Env = env

	app.Logger, err = logging.InitLogger(env, logging.Options{Dir: logDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	return nil
}
