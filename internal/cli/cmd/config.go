package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/tooldeck/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.GetConfigFile()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Long:  `Print the configuration after defaults, the config file and TOOLDECK_* environment variables are merged.`,
	RunE:  runConfigShow,
}

var configSchemaWrite bool

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of config.toml",
	Long:  `Print the JSON schema of config.toml, or write it next to the config file with --write.`,
	RunE:  runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)

	configSchemaCmd.Flags().BoolVarP(&configSchemaWrite, "write", "w", false, "write config.schema.json next to the config file")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	var settings any = app.Config
	if app.Manager != nil {
		settings = app.Manager.Settings()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(settings)
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	if configSchemaWrite {
		path, err := config.WriteSchemaFile()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated JSON schema: %s\n", path)
		return nil
	}

	data, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
