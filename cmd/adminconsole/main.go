// Command adminconsole is the terminal admin console.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/admin-console/internal/app"
	"github.com/nhle/admin-console/internal/credential"
	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/logging"
	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/plugin"
	"github.com/nhle/admin-console/internal/store"
	"github.com/nhle/admin-console/internal/sysnotify"
	"github.com/nhle/admin-console/internal/ui/notifyform"
	"github.com/nhle/admin-console/internal/ui/notifylist"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "adminconsole:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("adminconsole", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", model.DefaultConfigPath(), "path to the YAML config file")
	backend := fs.String("backend", "", "override backend.mode (local or http)")
	setToken := fs.String("set-token", "", "store the backend bearer token in the system keyring and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *setToken != "" {
		return credential.Set(credential.TokenKey, *setToken)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Backend.Mode = *backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.Log, false)
	if err != nil {
		return err
	}
	defer logger.Close()

	req, closeBackend, err := newRequester(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	reg := plugin.NewRegistry()
	if err := notifyform.Register(reg); err != nil {
		return err
	}
	if err := notifylist.Register(reg); err != nil {
		return err
	}

	deps := plugin.Deps{
		Requester:     req,
		Logger:        logger,
		FlashDuration: cfg.FlashDuration(),
	}

	logger.WithField("backend", cfg.Backend.Mode).Info("admin console starting")
	p := tea.NewProgram(app.New(reg, deps, cfg.Backend.Mode), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}

// newRequester wires the data-access transport selected by the config.
func newRequester(cfg *model.AppConfig, logger *logging.Logger) (datarequest.Requester, func(), error) {
	switch cfg.Backend.Mode {
	case model.BackendHTTP:
		token, err := credential.ResolveToken()
		if err != nil {
			logger.WithError(err).Warn("reading backend token, continuing without one")
		}
		return datarequest.NewClient(cfg.Backend.URL, token), func() {}, nil

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Backend.DBPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
		s, err := store.NewSQLiteStore(cfg.Backend.DBPath)
		if err != nil {
			return nil, nil, err
		}
		d := datarequest.NewDispatcher(logger)
		sysnotify.New(s, logger).Register(d)
		return d, func() {
			if err := s.Close(); err != nil {
				logger.WithError(err).Warn("closing store")
			}
		}, nil
	}
}
