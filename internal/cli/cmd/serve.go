package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/tooldeck/internal/app/api"
	"github.com/bnema/tooldeck/internal/bootstrap"
	"github.com/bnema/tooldeck/internal/logging"
)

var (
	serveListen  string
	serveMetrics bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [file...]",
	Short: "Run the viewer behind the HTTP control API",
	Long: `Run a headless viewer and expose it over HTTP: upload documents, switch
tabs, run viewer commands, report viewport geometry and fetch rendered pages
and thumbnails as PNG. Prometheus metrics are served on /metrics.

Examples:
  tooldeck serve
  tooldeck serve --listen 127.0.0.1:9000 report.pdf`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides server.listen)")
	serveCmd.Flags().BoolVar(&serveMetrics, "metrics", true, "serve /metrics (requires server.enable_metrics)")
}

func runServe(cmd *cobra.Command, args []string) error {
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
	rt.Start()

	if len(args) > 0 {
		res, err := rt.OpenFiles(rt.Ctx, args)
		if err != nil {
			return err
		}
		for _, f := range res.Failures {
			log.Warn().Err(f.Err).Str("name", f.Name).Msg("document not opened")
		}
	}

	srvCfg := rt.Config.Server
	if serveListen != "" {
		srvCfg.Listen = serveListen
	}
	srvCfg.EnableMetrics = srvCfg.EnableMetrics && serveMetrics

	srv := api.NewServer(rt.Ctx, api.Deps{
		Viewer:     rt.Viewer,
		Dispatcher: rt.Dispatcher,
		Strip:      rt.Strip,
		Gatherer:   rt.Registry,
	}, srvCfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	return srv.ListenAndServe(ctx, func(addr string) {
		fmt.Fprintln(out, app.Theme.Highlight.Render("tooldeck listening on http://"+addr))
	})
}
