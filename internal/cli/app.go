package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/todolist"
	"github.com/idilsaglam/tada/internal/ui"
)

// app holds what a command needs once flags and config are resolved.
type app struct {
	stdin io.Reader

	cfg     *config.Config
	cfgPath string
	logger  *logging.Logger
	tokens  *auth.Store

	backend api.Backend
	sync    *todolist.Synchronizer
	disp    *todolist.Dispatcher
}

func (a *app) configure(cmd *cobra.Command, f flags) error {
	path := f.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	if pf.Changed("backend") {
		cfg.Backend = f.backend
	}
	if pf.Changed("api-url") {
		cfg.APIURL = f.apiURL
	}
	if pf.Changed("data-file") {
		cfg.DataFile = f.dataFile
	}
	if pf.Changed("timeout") {
		cfg.Timeout.Duration = f.timeout
	}
	if pf.Changed("theme") {
		cfg.Theme = f.theme
	}
	if pf.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return usageError{err.Error()}
	}
	ui.SetTheme(cfg.Theme)

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.cfg, a.cfgPath, a.logger = cfg, path, logger
	a.tokens = auth.NewStore(dir)
	a.logger.Debug("configured", "command", cmd.CommandPath(), "backend", cfg.Backend)
	return nil
}

// open connects the backend and builds the synchronizer and dispatcher.
func (a *app) open() error {
	if a.sync != nil {
		return nil
	}
	switch a.cfg.Backend {
	case config.BackendFile:
		s, err := jsonstore.New(a.cfg.DataFile)
		if err != nil {
			return err
		}
		a.backend = s
	default:
		opts := []api.Option{api.WithTimeout(a.cfg.Timeout.Duration)}
		ti, err := a.tokens.Get()
		if err != nil {
			return err
		}
		if ti != nil {
			opts = append(opts, api.WithToken(ti.Token))
		}
		c, err := api.NewClient(a.cfg.APIURL, opts...)
		if err != nil {
			return err
		}
		a.backend = c
	}
	a.sync = todolist.NewSynchronizer(a.backend,
		todolist.WithLogger(a.logger.Logger),
		todolist.WithReadTimeout(a.cfg.Timeout.Duration),
	)
	a.disp = todolist.NewDispatcher(a.backend, a.sync)
	return nil
}

func (a *app) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.Timeout.Duration)
}

func (a *app) close() error {
	return a.logger.Close()
}
