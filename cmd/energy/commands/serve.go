package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LNshuti/energy/internal/api"
	"github.com/LNshuti/energy/internal/api/handlers"
	"github.com/LNshuti/energy/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gallery HTTP and WebSocket server",
	Long: `Start the gallery server with its cache maintenance scheduler.

Endpoints:
  GET  /health              - Health check
  GET  /api/companies       - Selectable companies
  GET  /api/indicators      - Indicator list (?all=false clears the selection)
  POST /api/plots           - Render charts for a selection
  GET  /ws                  - Selection/response over WebSocket
  GET  /metrics             - Prometheus metrics (METRICS_ENABLED=true)

Example:
  go run ./cmd/energy serve
  go run ./cmd/energy serve --port 9000`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("configure scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	routes := api.Routes{
		Gallery:   handlers.NewGalleryHandler(a.gallery, a.directory, log),
		WebSocket: handlers.NewWebSocketHandler(a.gallery, log),
	}
	if a.metrics != nil {
		routes.Metrics = a.metrics.Handler()
	}

	server := api.New(cfg, log, api.NewRouter(routes, log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	PrintDoubleSeparator()
	fmt.Printf("  Energy gallery on http://localhost:%s\n", cfg.Port)
	PrintSeparator()
	fmt.Printf("  Companies : %d\n", a.directory.Len())
	fmt.Printf("  Cache     : %d entries, TTL %s\n", cfg.Cache.MaxEntries, cfg.Cache.TTL)
	fmt.Printf("  Jobs      : %v\n", sched.Jobs())
	PrintDoubleSeparator()
	fmt.Println("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
