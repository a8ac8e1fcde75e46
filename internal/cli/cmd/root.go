// Package cmd provides Cobra CLI commands for tooldeck.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/tooldeck/internal/cli"
	"github.com/bnema/tooldeck/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "tooldeck",
		Short: "A tabbed multi-document PDF viewer core",
		Long: `Tooldeck - a tabbed PDF viewer with a lazily rendered thumbnail strip.

Features:
  - One tab per document, each with its own page and zoom
  - Concurrent page rendering that never lets one bad page stop the rest
  - Thumbnails rendered only as they scroll into view
  - Views remembered per document content
  - Terminal front end, HTTP control API and headless PNG export

Use 'tooldeck view' to open documents in the terminal, 'tooldeck serve' to
drive the viewer over HTTP, or 'tooldeck render' to export pages.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{LogToFile: ownsTerminal(cmd)})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// ownsTerminal reports whether cmd draws a full-screen TUI, in which case
// logs go to a file.
func ownsTerminal(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "view":
		return true
	case "history":
		json, _ := cmd.Flags().GetBool("json")
		return !json
	default:
		return false
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
