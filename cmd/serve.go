package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"temperance/internal/offline"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr     string
	flagServeUpstream string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the offline resource cache proxy",
	Long: `Fronts the app origin with a cache-first GET proxy. Cached copies are
served immediately; misses are fetched, cached in the current generation,
and returned. When the network is down the cached app shell still loads.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&flagServeUpstream, "upstream", "", "Upstream origin (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Serve.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	upstream := cfg.Serve.Upstream
	if flagServeUpstream != "" {
		upstream = flagServeUpstream
	}

	cache, err := offline.New(cfg.CacheDir(), cfg.Serve.Generation, upstream)
	if err != nil {
		return err
	}
	if err := cache.Activate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pre-warm is best-effort: the upstream may be down, and the whole point
	// of the cache is surviving that.
	if err := cache.Prewarm(ctx); err != nil {
		slog.Warn("prewarm failed", "error", err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           cache,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	fmt.Printf("  Serving %s through cache at http://%s\n", upstream, addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("cache proxy server: %w", err)
	}
}
