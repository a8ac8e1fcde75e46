package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/tooldeck/internal/bootstrap"
	"github.com/bnema/tooldeck/internal/cli/model"
	"github.com/bnema/tooldeck/internal/logging"
)

// shutdownTimeout bounds waiting for in-flight renders on exit.
const shutdownTimeout = 5 * time.Second

var viewCmd = &cobra.Command{
	Use:   "view [file...]",
	Short: "Open documents in the terminal viewer",
	Long: `Open one or more PDF files, one tab each, in a full-screen terminal view
showing the active page, zoom, render progress and the thumbnail strip.

Press 'o' inside the viewer to open more files.

Examples:
  tooldeck view report.pdf
  tooldeck view *.pdf`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	rt, err := app.NewRuntime(bootstrap.Options{})
	if err != nil {
		return fmt.Errorf("create viewer: %w", err)
	}
	defer closeRuntime(rt)

	log := logging.FromContext(rt.Ctx)
	if app.Manager != nil {
		if err := rt.WatchConfig(app.Manager); err != nil {
			log.Warn().Err(err).Msg("config hot reload unavailable")
		}
	}

	if len(args) > 0 {
		if _, err := rt.OpenFiles(rt.Ctx, args); err != nil {
			return err
		}
	}

	m := model.NewViewerModel(rt.Ctx, app.Theme, model.ViewerDeps{
		Viewer:     rt.Viewer,
		Dispatcher: rt.Dispatcher,
		Shortcuts:  rt.Shortcuts,
		Open:       rt.OpenFiles,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	events := model.NewProgramEvents(p.Send)
	rt.Events.Attach(events)
	rt.Notices.Attach(events)
	defer func() {
		rt.Events.Attach(nil)
		rt.Notices.Attach(nil)
	}()

	rt.Start()
	rt.Timer.Mark("tui")
	rt.Timer.LogDebug(rt.Ctx)

	_, err = p.Run()
	return err
}

func closeRuntime(rt *bootstrap.Runtime) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := rt.Close(ctx); err != nil {
		logging.FromContext(rt.Ctx).Warn().Err(err).Msg("viewer shutdown incomplete")
	}
}
