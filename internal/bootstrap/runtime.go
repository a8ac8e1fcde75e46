// Package bootstrap wires the viewer core to its infrastructure: the
// rendering backend, the remembered-view store, metrics and the main loop.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/domain/repository"
	"github.com/bnema/tooldeck/internal/infrastructure/config"
	"github.com/bnema/tooldeck/internal/infrastructure/fitz"
	"github.com/bnema/tooldeck/internal/infrastructure/metrics"
	"github.com/bnema/tooldeck/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
	"github.com/bnema/tooldeck/internal/ui/dispatcher"
	"github.com/bnema/tooldeck/internal/ui/input"
	"github.com/bnema/tooldeck/internal/ui/mainloop"
	"github.com/bnema/tooldeck/internal/ui/visibility"
)

// Options tweak how a Runtime is wired.
type Options struct {
	// Decoder replaces the go-fitz backend, mainly for tests.
	Decoder port.DocumentDecoder
	// ViewRepository replaces the sqlite store. Ignored unless history is enabled.
	ViewRepository repository.ViewStateRepository
	// Synchronous delivers events inline instead of through the main loop.
	Synchronous bool
}

// Runtime is one wired viewer process.
type Runtime struct {
	Ctx        context.Context
	RunID      string
	Config     *config.Config
	Viewer     *coordinator.Viewer
	Dispatcher *dispatcher.Dispatcher
	Strip      *visibility.StripObserver
	Loop       *mainloop.Loop
	Events     *EventRelay
	Notices    *NotificationRelay
	Registry   *prometheus.Registry
	Remember   *usecase.RememberViewUseCase
	Timer      *StartupTimer

	shortcuts atomic.Pointer[input.ShortcutTable]
	started   atomic.Bool
	db        *sqlite.LazyDB
	cancel    context.CancelFunc
	loopDone  chan struct{}
	closeOnce sync.Once
}

// NewRootLogger builds the process logger from the logging section. The
// logger itself accepts every level; the configured level is applied
// globally so a config reload can change it.
func NewRootLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.SetGlobalLevel(logging.ParseLevel(cfg.Level))
	return logging.NewFromConfigValues("trace", string(cfg.Format))
}

// New wires a runtime from a loaded configuration. ctx must carry the root
// logger. Call Start before using the viewer and Close when done.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	timer := NewStartupTimer()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.FromContext(ctx)

	rt := &Runtime{
		RunID:    runID,
		Config:   cfg,
		Loop:     mainloop.NewLoop(),
		Events:   &EventRelay{},
		Notices:  &NotificationRelay{},
		Registry: prometheus.NewRegistry(),
		Timer:    timer,
		loopDone: make(chan struct{}),
	}
	rt.Ctx, rt.cancel = context.WithCancel(ctx)

	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	renderMetrics := metrics.NewRenderMetrics(rt.Registry)
	timer.Mark("metrics")

	repo := opts.ViewRepository
	if cfg.History.Enabled && repo == nil {
		rt.db = sqlite.NewLazyDB(cfg.History.DatabasePath)
		repo = sqlite.NewLazyViewStateRepository(rt.db)
		log.Debug().Str("path", cfg.History.DatabasePath).Msg("remembered views enabled")
	}
	if !cfg.History.Enabled {
		repo = nil
	}
	rt.Remember = usecase.NewRememberViewUseCase(repo)
	timer.Mark("history")

	decoder := opts.Decoder
	if decoder == nil {
		decoder = fitz.NewDecoder()
	}

	rt.Strip = visibility.NewStripObserver(cfg.Thumbnails.VisibilityThreshold)
	rt.Strip.SetWindow(0, cfg.Thumbnails.StripHeight)

	post := rt.Loop.Post
	if opts.Synchronous {
		post = mainloop.Synchronous
	}

	rt.Viewer = coordinator.New(rt.Ctx, coordinator.Config{
		TabsUC:       usecase.NewManageTabsUseCase(nil),
		ZoomUC:       usecase.NewManageZoomUseCase(cfg.Viewer.FitWidthPadding),
		RenderUC:     usecase.NewRenderPagesUseCase(cfg.Render.MaxConcurrency),
		ScrollUC:     usecase.NewReconcileScrollUseCase(cfg.Viewer.PageGap),
		OpenUC:       usecase.NewOpenDocumentsUseCase(decoder, fitz.PDFOnly),
		RememberUC:   rt.Remember,
		Events:       rt.Events,
		Notification: rt.Notices,
		Metrics:      renderMetrics,
		Observer:     rt.Strip,
		Post:         post,
		Viewport: entity.ViewportGeometry{
			Width:  cfg.Viewer.ViewportWidth,
			Height: cfg.Viewer.ViewportHeight,
		},
		ThumbnailScale:     cfg.Thumbnails.Scale,
		ThumbnailGap:       cfg.Thumbnails.SlotGap,
		ThumbnailsExpanded: cfg.Thumbnails.StartExpanded,
	})
	rt.Strip.SetLayoutSource(rt.Viewer.Thumbnails.Layout)
	rt.Dispatcher = dispatcher.New(rt.Ctx, rt.Viewer)
	rt.setShortcuts(&cfg.Shortcuts)
	timer.Mark("viewer")

	timer.LogDebug(rt.Ctx)
	log.Info().
		Str("run_id", runID).
		Bool("history", rt.Remember.Enabled()).
		Int("max_concurrency", cfg.Render.MaxConcurrency).
		Msg("viewer runtime ready")

	return rt, nil
}

// Start runs the main loop on its own goroutine.
func (rt *Runtime) Start() {
	if !rt.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(rt.loopDone)
		rt.Loop.Run(rt.Ctx)
	}()
}

// Shortcuts returns the current key table.
func (rt *Runtime) Shortcuts() input.ShortcutTable {
	if t := rt.shortcuts.Load(); t != nil {
		return *t
	}
	return input.ShortcutTable{}
}

func (rt *Runtime) setShortcuts(cfg *config.ShortcutsConfig) {
	table := input.NewShortcutTable(rt.Ctx, cfg)
	rt.shortcuts.Store(&table)
}

// WatchConfig applies reloads of the config file: the log level and the
// shortcut table change live. Geometry and render settings apply to the
// next run.
func (rt *Runtime) WatchConfig(mgr *config.Manager) error {
	mgr.OnConfigChange(func(cfg *config.Config) {
		zerolog.SetGlobalLevel(logging.ParseLevel(cfg.Logging.Level))
		rt.setShortcuts(&cfg.Shortcuts)
		logging.FromContext(rt.Ctx).Info().
			Str("level", cfg.Logging.Level).
			Msg("configuration reloaded")
	})
	if err := mgr.Watch(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	return nil
}

// OpenFiles reads paths from disk and opens them as tabs.
func (rt *Runtime) OpenFiles(ctx context.Context, paths []string) (*coordinator.OpenResult, error) {
	sources, err := ReadSources(paths)
	if err != nil {
		return nil, err
	}
	return rt.Viewer.Session.OpenDocuments(ctx, sources), nil
}

// Close saves remembered views, waits for renders, drains queued events and
// releases the database. Safe to call more than once.
func (rt *Runtime) Close(ctx context.Context) error {
	var err error
	rt.closeOnce.Do(func() {
		log := logging.FromContext(rt.Ctx)
		if shutdownErr := rt.Viewer.Shutdown(ctx); shutdownErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown viewer: %w", shutdownErr))
		}
		if rt.started.Load() {
			rt.Loop.Drain()
			rt.cancel()
			<-rt.loopDone
		} else {
			rt.cancel()
		}
		if rt.db != nil {
			if dbErr := rt.db.Close(); dbErr != nil {
				err = errors.Join(err, fmt.Errorf("close database: %w", dbErr))
			}
		}
		log.Info().Msg("viewer runtime closed")
	})
	return err
}
