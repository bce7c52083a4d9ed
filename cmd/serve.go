package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/artifact-narrator/narrator/internal/handlers"
	"github.com/artifact-narrator/narrator/internal/narrator"
	"github.com/artifact-narrator/narrator/internal/service"
	"github.com/artifact-narrator/narrator/internal/storage"
)

func newServeCmd(opts *options) *cobra.Command {
	var port string
	var history int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the narration page",
		Long: `Starts the Narrator web page on the specified port.

The page lets you pick an artifact photo, shows the recognized details
and the generated narration. Recent runs are kept in memory.`,
		Example: `  # Start server on default port 8888
  narrator serve

  # Start server on custom port against a local backend
  narrator serve --port 3000 --base-url http://localhost:5000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runStore, err := storage.New(history)
			if err != nil {
				return err
			}

			client := service.NewClient(opts.cfg.BaseURL, opts.cfg.Timeout)
			orchestrator := narrator.New(client, opts.cfg.Locale, nil)
			handler := handlers.New(orchestrator, runStore, opts.cfg.BaseURL, string(opts.cfg.Locale))

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Narrator interface available", "addr", addr, "url", "http://localhost"+addr, "backend", opts.cfg.BaseURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().IntVar(&history, "history", storage.DefaultSize, "Number of recent runs to keep")

	return cmd
}
