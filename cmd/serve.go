package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalog-browser/catalog/internal/handlers"
	"github.com/catalog-browser/catalog/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the catalog gallery",
		Long: `Loads the catalog and media index, then serves the gallery on the configured port.

If either data file cannot be loaded the server still starts and every page shows
the load error instead of the gallery. Restart the server to retry.`,
		Example: `  # Start server on default port 8888
  catalog serve

  # Serve a category page from remote data on a custom port
  catalog serve --port 3000 --catalog https://example.org/data/BK.csv --scope fpv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			store, loadErr := a.loadStore(cmd.Context())
			if loadErr != nil {
				slog.Error("Catalog unavailable", "err", loadErr)
			}

			sessions := storage.New(cfg.Facets...)
			handler := handlers.New(handlers.Options{
				Store:    store,
				LoadErr:  loadErr,
				Matcher:  a.matcher(),
				Sessions: sessions,
				Facets:   cfg.Facets,
				Language: cfg.Language(),
				MediaDir: cfg.Media.Dir,
				Title:    cfg.Scope.Value,
			})

			addr := cfg.Server.Address()
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.NewServer(handler),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go pruneSessions(cmd.Context(), sessions, cfg.Server.SessionTTL)

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Catalog interface available", "addr", addr, "url", "http://localhost:"+portOf(addr))
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

	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default 8888)")
	cmd.Flags().String("host", "", "Interface to listen on (default 0.0.0.0)")
	bindFlag(a.v, "server.port", cmd.Flags().Lookup("port"))
	bindFlag(a.v, "server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func pruneSessions(ctx context.Context, sessions *storage.SessionStore, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(ttl); n > 0 {
				slog.Debug("Pruned idle sessions", "removed", n)
			}
		}
	}
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
