package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/logistica/presencas/internal/config"
	"github.com/logistica/presencas/pkg/clients/sheetsclient"
	"github.com/logistica/presencas/pkg/core/period"
	"github.com/logistica/presencas/pkg/db"
)

// SkipDatabase is the command annotation that stops startup from opening the database
const SkipDatabase = "skipDatabase"

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg        *config.Config
	Secrets    *config.Secrets
	DBSettings *config.DatabaseSettings
	Database   db.Database
	Logger     *zap.Logger
	Ctx        context.Context
	Env        string

	// AppliedMigrations lists the schema migrations run during startup
	AppliedMigrations []string

	// Now is the clock used for period checks
	Now func() time.Time

	sheetsClient *sheetsclient.Client
}

// SheetsClient returns the Google Sheets client, authenticating on first use
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.sheetsClient = client
	return client, nil
}

func (app *AppContext) today() time.Time {
	if app.Now == nil {
		return period.Date(time.Now())
	}
	return period.Date(app.Now())
}

// checkFillable rejects writes that start in a closed period
func (app *AppContext) checkFillable(start time.Time) error {
	minimum := period.MinimumFillable(app.today())
	if start.Before(minimum) {
		return fmt.Errorf("%s is in a closed period; the earliest editable date is %s", period.ISO(start), period.ISO(minimum))
	}
	return nil
}
