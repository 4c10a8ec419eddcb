package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/SysSecura/internal/logger"
	"github.com/yildizm/SysSecura/internal/ui"
)

func newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [file]",
		Short: "Pick a log file and detect threats interactively",
		Long: `Launch the interactive terminal UI. Type a path and press Enter to select a
file, then Ctrl+D to submit it. Results replace the previous set on success.

Examples:
  syssecura tui
  syssecura tui activity.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// log lines would tear the alternate screen
			controller, err := newController(logger.Nop())
			if err != nil {
				return err
			}

			opts := ui.Options{
				Controller: controller,
				Color:      useColor(),
			}
			if len(args) == 1 {
				opts.InitialPath = args[0]
			}
			return ui.Run(ctx, opts)
		},
	}
}
