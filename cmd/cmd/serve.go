package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/draft"
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
	"github.com/yaswanthpuritipati/inboXpert/internal/server"
	"github.com/yaswanthpuritipati/inboXpert/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inboXpert HTTP API",
	Long: `Run the HTTP API exposing draft generation, summarization, and the
synced inbox. Endpoints:

  POST /generate/draft
  POST /generate/summary
  GET  /emails
  GET  /healthz`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		drafts, err := draft.NewService(cfg)
		if err != nil {
			return err
		}

		st, err := store.NewStore(cfg.Store.Directory)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		srv := server.New(cfg, drafts, st)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
