package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/edaloom/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser upload UI",
	Long:  `Serves an upload form; every uploaded file is analyzed within its own request and the report is returned as HTML. Nothing is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ServerAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		opt, err := configIngestSettings().options()
		if err != nil {
			return err
		}
		srv, err := server.New(server.Config{
			MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
			Ingest:         opt,
			HeadRows:       cfg.HeadRows,
			Charts:         cfg.Charts,
			Logger:         logger,
		})
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on http://%s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8501", "listen address (overrides config)")
}
