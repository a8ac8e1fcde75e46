package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/tooldeck/internal/cli"
)

var (
	renderOut      string
	renderScale    float64
	renderQuiet    bool
	renderParallel int
)

var renderCmd = &cobra.Command{
	Use:   "render file...",
	Short: "Render document pages to PNG files",
	Long: `Render every page of each document to <name>-pNNN.png in the output
directory. Files that cannot be opened and pages that fail to render are
reported; the rest are still written.

Examples:
  tooldeck render report.pdf
  tooldeck render --scale 2 --out pages/ a.pdf b.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOut, "out", "o", ".", "output directory")
	renderCmd.Flags().Float64VarP(&renderScale, "scale", "s", 1, "render scale (1 = 100%)")
	renderCmd.Flags().BoolVarP(&renderQuiet, "quiet", "q", false, "hide the progress bar")
	renderCmd.Flags().IntVarP(&renderParallel, "jobs", "j", -1, "pages rendered at once (-1 uses render.max_concurrency)")
}

func runRender(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	opts := cli.ExportOptions{
		Paths:          args,
		OutDir:         renderOut,
		Scale:          renderScale,
		MaxConcurrency: app.Config.Render.MaxConcurrency,
	}
	if renderParallel >= 0 {
		opts.MaxConcurrency = renderParallel
	}
	if !renderQuiet {
		opts.Progress = os.Stderr
	}

	res, err := cli.Export(app.Ctx(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range res.Written {
		fmt.Fprintln(out, path)
	}
	for _, f := range res.Failed {
		fmt.Fprintln(cmd.ErrOrStderr(), app.Theme.ErrorStyle.Render(fmt.Sprintf("%s: %v", f.Name, f.Err)))
	}
	if len(res.Written) == 0 {
		return fmt.Errorf("no pages rendered")
	}
	return nil
}
