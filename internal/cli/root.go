// Package cli holds the cobra commands of the rentcatalog binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/config"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/remote"
	"github.com/Houeta/rentcatalog/internal/session"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// LoggerFunc builds the process logger for an environment name.
type LoggerFunc func(env string) *slog.Logger

// app is the state shared by all commands once the root pre-run has loaded it.
type app struct {
	newLogger LoggerFunc
	cfg       *config.Config
	log       *slog.Logger
}

func NewRootCmd(newLogger LoggerFunc) *cobra.Command {
	a := &app{newLogger: newLogger}

	cmd := &cobra.Command{
		Use:   "rentcatalog",
		Short: "Browse and manage a rental catalog of cameras and accessories",
		Long: `rentcatalog talks to the rental service configured with RC_API_URL.

It can run the Telegram bot front end or work with the catalog directly
from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Load .env file if present.
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read .env file: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.log = a.newLogger(cfg.Env)
			return nil
		},
	}

	cmd.AddCommand(
		newBotCmd(a),
		newListCmd(a),
		newCompareCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)

	return cmd
}

func (a *app) apiOptions() remote.Options {
	return remote.Options{BaseURL: a.cfg.API.URL, Timeout: a.cfg.API.Timeout, Retries: a.cfg.API.Retries}
}

// openWorkspace opens a workspace for creds with observer reporting cache activity.
func (a *app) openWorkspace(creds catalog.Credentials, observer catalog.Observer) (*catalog.Workspace, error) {
	client, err := remote.NewClient(a.log, creds, a.apiOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return catalog.NewWorkspace(a.log, client, creds, observer)
}

// staticWorkspace opens a workspace with the credential from RC_API_TOKEN.
// owner overrides RC_OWNER_ID when set.
func (a *app) staticWorkspace(owner string) (*catalog.Workspace, error) {
	if owner == "" {
		owner = a.cfg.API.OwnerID
	}

	return a.openWorkspace(session.New(a.cfg.API.Token, owner), nil)
}

func parseKind(s string) (models.Kind, error) {
	switch models.Kind(s) {
	case models.KindCamera, models.KindAccessory:
		return models.Kind(s), nil
	default:
		return "", fmt.Errorf("unknown kind %q, expected %s or %s", s, models.KindCamera, models.KindAccessory)
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, newLogger LoggerFunc) error {
	return NewRootCmd(newLogger).ExecuteContext(ctx)
}
