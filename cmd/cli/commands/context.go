package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/internal/config"
	"github.com/jakechorley/shift-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-planner/pkg/db"
	"github.com/jakechorley/shift-planner/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands.
// The sheets client and database are opened on first use, so commands that only
// read local files never need credentials.
type AppContext struct {
	Cfg    *config.Config
	Env    string
	Logger *zap.Logger
	Ctx    context.Context

	sheets   *sheetsclient.Client
	database *postgres.DB
}

// SheetsClient returns the Google Sheets client, authorizing on first use
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheets != nil {
		return a.sheets, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	a.sheets = client
	return client, nil
}

// Database connects to Postgres and applies pending migrations on first use
func (a *AppContext) Database() (db.Database, error) {
	if a.database != nil {
		return a.database, nil
	}
	if a.Cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("databaseURL is not configured (set it in the config file or %sDATABASE_URL)", config.EnvPrefix)
	}

	a.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	applied, err := database.RunMigrations(a.Ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		a.Logger.Info("Applied migrations", zap.Strings("migrations", applied))
	}

	a.database = database
	return database, nil
}

// Close releases whatever was opened
func (a *AppContext) Close() {
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
}
