package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hearline-admin/internal/api"
	"hearline-admin/internal/store"
	"hearline-admin/internal/tui"
)

type App struct {
	Dir       string
	ServerURL string
	DebugLog  string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "hearline",
		Short:        "Admin console for the Hearline listening platform",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Log in once, then browse sessions interactively
  hearline login --server https://api.hearline.example
  hearline

  # Scriptable listing
  hearline sessions list --page 2 --format json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "state directory (default ~/.hearline)")
	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", "", "platform backend base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", "", "append request debug logs to this file")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newSessionsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, cfg, err := loadClient(app)
	if err != nil {
		return err
	}
	return tui.Run(client, cfg.EffectivePageSize())
}

func (app *App) stateStore() (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

func (app *App) loadConfig(s store.Store) (*store.Config, error) {
	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	if app.ServerURL != "" {
		cfg.ServerURL = app.ServerURL
	}
	if app.DebugLog != "" {
		cfg.DebugLog = app.DebugLog
	}
	return cfg, nil
}

// loadClient assembles the authenticated API client: config, stored token,
// optional debug logger.
func loadClient(app *App) (*api.Client, *store.Config, error) {
	s, err := app.stateStore()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := app.loadConfig(s)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(cfg.ServerURL) == "" {
		return nil, nil, errors.New("no server configured; run `hearline login --server <url>` first")
	}

	sess, err := s.LoadSession(context.Background(), cfg)
	if err != nil {
		if errors.Is(err, store.ErrNotLoggedIn) {
			return nil, nil, fmt.Errorf("not logged in; run `hearline login` first")
		}
		return nil, nil, err
	}

	client := api.New(sess)
	if log, ok := debugLogger(cfg.DebugLog); ok {
		client.SetLogger(log)
	}
	return client, cfg, nil
}

// debugLogger opens a file-backed zerolog logger; logging stays off when no
// path is configured.
func debugLogger(path string) (zerolog.Logger, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return zerolog.Nop(), false
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), false
	}
	return zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel), true
}
