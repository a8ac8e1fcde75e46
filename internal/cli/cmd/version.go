package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		version := buildInfo.Version
		if version == "" {
			version = "dev"
		}
		fmt.Fprintf(out, "tooldeck %s\n", version)
		if buildInfo.Commit != "" {
			fmt.Fprintf(out, "  commit:  %s\n", buildInfo.Commit)
		}
		if buildInfo.BuildDate != "" {
			fmt.Fprintf(out, "  built:   %s\n", buildInfo.BuildDate)
		}
		if buildInfo.GoVersion != "" {
			fmt.Fprintf(out, "  go:      %s\n", buildInfo.GoVersion)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
