// Package cli holds the shared state of the tooldeck commands and the
// headless page export.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/tooldeck/internal/bootstrap"
	"github.com/bnema/tooldeck/internal/cli/styles"
	"github.com/bnema/tooldeck/internal/domain/build"
	"github.com/bnema/tooldeck/internal/infrastructure/config"
	"github.com/bnema/tooldeck/internal/logging"
)

// Options select how the app is set up for a command.
type Options struct {
	// LogToFile sends logs to a run log file, for commands that own the terminal.
	LogToFile bool
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager // nil when the config could not be loaded
	Theme     *styles.Theme
	BuildInfo build.Info

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// NewApp loads the configuration and builds the root logger.
func NewApp(opts Options) (*App, error) {
	mgr, cfg, loadErr := loadConfig()

	logger := bootstrap.NewRootLogger(cfg.Logging)
	cleanup := func() {}
	if opts.LogToFile {
		dir, err := config.GetLogDir()
		if err != nil {
			return nil, fmt.Errorf("resolve log dir: %w", err)
		}
		zerolog.SetGlobalLevel(logging.ParseLevel(cfg.Logging.Level))
		logger, cleanup, err = logging.NewWithFile(logging.Config{
			Level:      zerolog.TraceLevel,
			Format:     string(cfg.Logging.Format),
			TimeFormat: "15:04:05",
		}, dir)
		if err != nil {
			return nil, err
		}
	}
	ctx := logging.WithContext(context.Background(), logger)

	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("using default configuration")
	}

	return &App{
		Config:     cfg,
		Manager:    mgr,
		Theme:      styles.NewTheme(),
		ctx:        ctx,
		logCleanup: cleanup,
	}, nil
}

// NewRuntime wires a viewer runtime from the loaded configuration.
func (a *App) NewRuntime(opts bootstrap.Options) (*bootstrap.Runtime, error) {
	return bootstrap.New(a.ctx, a.Config, opts)
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations, falling back to
// the defaults.
func loadConfig() (*config.Manager, *config.Config, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, config.DefaultConfig(), err
	}

	if err := mgr.Load(); err != nil {
		return nil, config.DefaultConfig(), err
	}

	return mgr, mgr.Get(), nil
}
