package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/server"
)

var serveAddr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser upload page",
		Long: `Start the browser front end: an upload page at / and a JSON API at
POST /api/analyze. Every upload is handled independently; nothing is kept
between requests.

Examples:
  syssecura serve
  syssecura serve --addr 0.0.0.0:9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log := newLogger("cli")
	client, err := newPredictor(log)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(server.Options{
		Addr:        cfg.Server.Addr,
		ReadTimeout: cfg.Server.ReadTimeout,
		MaxFileSize: cfg.Intake.MaxFileSize,
		Predictor:   client,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "%s Serving on http://%s (predictions from %s)\n",
		emoji.GetEmoji("rocket"), srv.Addr(), client.Endpoint())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	var (
		shutdownCtx context.Context
		cancel      context.CancelFunc
	)
	if cfg.Server.ShutdownTimeout > 0 {
		shutdownCtx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	} else {
		shutdownCtx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
