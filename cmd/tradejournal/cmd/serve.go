package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/internal/server"
	"github.com/rustyeddy/tradejournal/internal/service"
	"github.com/rustyeddy/tradejournal/internal/uploads"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal REST API",
	Long: `Start the HTTP server exposing trades, images and analytics.

Examples:
  tradejournal serve
  TRADEJOURNAL_SERVER_PORT=8080 tradejournal serve -c journal.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)

	j, err := openStore(m)
	if err != nil {
		return err
	}
	defer j.Close()

	up, err := uploads.New(cfg.Storage.ImageDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("image dir: %w", err)
	}

	srv := server.New(cfg.Server, server.Deps{
		Store:     j,
		Service:   service.New(j, log, m),
		Uploads:   up,
		Metrics:   m,
		Logger:    log,
		StaticDir: cfg.Web.StaticDir,
	})

	log.Info("journal ready",
		slog.String("db", cfg.Storage.DBPath),
		slog.String("images", up.Dir()),
	)
	return srv.Run(ctx)
}
