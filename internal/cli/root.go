package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yildizm/SysSecura/internal/config"
	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/logger"
	"github.com/yildizm/SysSecura/internal/predict"
	"github.com/yildizm/SysSecura/internal/session"
	"github.com/yildizm/SysSecura/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "syssecura",
		Short: "Insider threat detection client",
		Long: `SysSecura submits JSON activity logs to a threat prediction service and
shows the verdict for every record, flagging anomalous activity.

The same pipeline is available as a one-shot command, an interactive terminal UI,
a file watcher and a browser front end.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			return loadGlobalConfig()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv)")

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newTUICommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SysSecura %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadGlobalConfig merges files, environment and flags into the global config.
// Flags win over everything the loader produced.
func loadGlobalConfig() error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		cfg.Output.Verbose = true
	}
	if outputFmt != "" {
		cfg.Output.DefaultFormat = outputFmt
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ui.SetThemeByName(cfg.Output.Theme)
	globalConfig = cfg
	return nil
}

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose || GetGlobalConfig().Output.Verbose
}

func getOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// useColor resolves the configured color mode against NO_COLOR
func useColor() bool {
	switch GetGlobalConfig().Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return !ui.IsColorDisabled()
	}
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// newController wires a submission controller to the configured prediction service
func newController(log *logger.Logger) (*session.Controller, error) {
	client, err := newPredictor(log)
	if err != nil {
		return nil, err
	}
	validator := intake.NewValidator(GetGlobalConfig().Intake.MaxFileSize)
	return session.NewController(client, validator, log), nil
}

func newPredictor(log *logger.Logger) (*predict.Client, error) {
	predictCfg := GetGlobalConfig().PredictorConfig()
	client, err := predict.New(&predictCfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction client: %w", err)
	}
	return client, nil
}
