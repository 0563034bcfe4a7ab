// Command notifyd serves admin data requests over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/nhle/admin-console/internal/credential"
	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/logging"
	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/server"
	"github.com/nhle/admin-console/internal/store"
	"github.com/nhle/admin-console/internal/sysnotify"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "notifyd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("notifyd", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", model.DefaultConfigPath(), "path to the YAML config file")
	addr := fs.String("addr", "", "override server.addr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := logging.New(cfg.Log, true)
	if err != nil {
		return err
	}
	defer logger.Close()

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Backend.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.NewSQLiteStore(cfg.Backend.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	d := datarequest.NewDispatcher(logger)
	sysnotify.New(s, logger).Register(d)

	token, err := credential.ResolveToken()
	if err != nil {
		logger.WithError(err).Warn("reading bearer token, serving without authentication")
	}
	if token == "" {
		logger.Warn("no bearer token configured, data requests are unauthenticated")
	}

	srv := server.New(cfg.Server.Addr, server.NewRouter(d, logger, token), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("notifyd stopped")
	return nil
}
