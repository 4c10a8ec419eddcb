package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/SysSecura/internal/formatter"
	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/logger"
	"github.com/yildizm/SysSecura/internal/predict"
	"github.com/yildizm/SysSecura/internal/session"
)

var (
	analyzeType       string
	analyzeOutputFile string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Submit a JSON log file for threat detection",
		Long: `Submit a JSON log file to the prediction service and print one row per
returned record. Anomalous records are flagged.

The declared media type is taken from the file extension unless --type is given.
Only application/json is accepted.

Examples:
  syssecura analyze activity.json
  syssecura analyze -o json activity.json
  syssecura analyze --output-file report.md -o markdown activity.json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeType, "type", "t", "", "declared media type (default: from file extension)")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger("cli")

	candidate, err := intake.FromPath(args[0], analyzeType)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", args[0], err)
	}

	controller, err := newController(log)
	if err != nil {
		return err
	}

	state, err := detect(ctx, controller, candidate, log)
	if err != nil {
		return err
	}

	if analyzeOutputFile != "" {
		return writeResultsFile(analyzeOutputFile, state.Results)
	}
	return writeResults(cmd.OutOrStdout(), state.Results)
}

// detect runs one submission and turns a non-success outcome into the
// user-facing message
func detect(ctx context.Context, controller *session.Controller, candidate *intake.File, log *logger.Logger) (session.State, error) {
	log.Debug("submitting %s (%s, %s)", candidate.Name, candidate.MediaType, intake.FormatSize(candidate.Size))

	state, err := controller.Run(ctx, candidate)
	if err != nil {
		log.DebugWithFields("submission did not succeed", []logger.Field{
			logger.F("phase", state.Phase.String()),
			logger.F("kind", string(predict.KindOf(err))),
			logger.Error(err),
		})
		return state, errors.New(state.Message)
	}

	log.DebugWithFields("submission succeeded", []logger.Field{logger.Count(len(state.Results))})
	return state, nil
}

// writeResults renders records in the configured output format
func writeResults(w io.Writer, records []predict.Record) error {
	f, err := formatter.New(getOutputFormat(), useColor())
	if err != nil {
		return err
	}

	data, err := f.Format(records)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeResultsFile(path string, records []predict.Record) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writeErr := writeResults(file, records)
	if err := file.Close(); err != nil && writeErr == nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return writeErr
}
