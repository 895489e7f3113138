package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/config"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/logger"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/sheets"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/store"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/syncer"
)

// App bundles the process configuration and logger shared by the commands.
type App struct {
	Config config.Config
	Log    zerolog.Logger
}

func newApp(flags *RootFlags) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.Account != "" {
		cfg.Account = flags.Account
	}

	level := cfg.LogLevel
	if flags.Verbose {
		level = "debug"
	}

	return &App{Config: cfg, Log: logger.New("cli", level)}, nil
}

func (a *App) openStore() (*store.DB, error) {
	if _, err := config.EnsureDir(); err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	return store.Open(a.Config.DatabasePath)
}

func (a *App) loadRegistry() (*config.Registry, error) {
	return config.LoadRegistry(a.Config.ClientsPath)
}

// newAdapter builds the sheet adapter: the authenticated API client when
// credentials and a stored refresh token exist, otherwise API-less so reads
// go through the public CSV export and writes fail with the auth error.
func (a *App) newAdapter(ctx context.Context) (sheets.Adapter, error) {
	svc, err := sheets.NewAPIService(ctx, a.Config.CredentialsPath, a.Config.Account)
	if err != nil {
		var authErr *sheets.AuthRequiredError
		if !errors.As(err, &authErr) {
			return nil, err
		}
		a.Log.Warn().Err(err).Msg("sheets api unavailable, reads fall back to csv export")
		svc = nil
	}
	return sheets.NewService(svc, sheets.NewCSVReader(), a.Log), nil
}

func (a *App) newSyncer(db *store.DB, adapter sheets.Adapter, registry *config.Registry) *syncer.Syncer {
	return syncer.New(db, adapter, registry, a.Log)
}
