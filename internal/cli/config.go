package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/SysSecura/internal/config"
	"github.com/yildizm/SysSecura/internal/emoji"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect SysSecura configuration",
		Long: `Inspect the effective configuration and where it is loaded from.

Settings are merged from built-in defaults, config files, SYSSECURA_*
environment variables and command-line flags, in that order.`,
	}

	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigPathsCommand())

	return configCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective configuration after loading from all sources,
including environment variable and flag overrides.`,
		Example: `  # Show config in YAML format
  syssecura config show

  # Show config in JSON format
  syssecura config show --format json

  # Show config from specific file
  syssecura config show --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetGlobalConfig()

			var (
				data []byte
				err  error
			)
			switch format {
			case "json":
				data, err = json.MarshalIndent(cfg, "", "  ")
				data = append(data, '\n')
			case "yaml":
				data, err = yaml.Marshal(cfg)
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to marshal config to %s: %w", format, err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigPathsCommand creates the config paths subcommand
func newConfigPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "paths",
		Aliases: []string{"path"},
		Short:   "Show configuration file search paths",
		Long: `Display the list of paths SysSecura searches for configuration files,
in priority order, and which of them exist.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file search paths (in priority order):\n\n", emoji.GetEmoji("file"))

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				status := emoji.GetEmoji("error") + " (not found)"
				if fileExists(path) {
					status = emoji.GetEmoji("success") + " (exists)"
				}

				fmt.Fprintf(out, "  %d. %s %s\n", i+1, path, status)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
			}
			fmt.Fprintln(out)

			if cfgFile != "" {
				fmt.Fprintf(out, "Using --config file: %s\n", cfgFile)
			} else if current, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "Current config file: %s\n", current)
			} else {
				fmt.Fprintln(out, "No config file found, using defaults")
			}

			fmt.Fprintf(out, "Environment variables with %s prefix override file settings\n", config.EnvPrefix)
		},
	}
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
