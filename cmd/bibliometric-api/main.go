// Command bibliometric-api runs the bibliometric analysis backend's HTTP
// API, wiring the acquisition pipeline, similarity engine, frequency
// analyzer and clustering engine behind a single process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bibliometric-api/internal/acquisition"
	"bibliometric-api/internal/acquisition/job"
	"bibliometric-api/internal/acquisition/source"
	"bibliometric-api/internal/config"
	"bibliometric-api/internal/logger"
	"bibliometric-api/internal/server"
	"bibliometric-api/internal/similarity"
	"bibliometric-api/internal/tui"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	logger.Init()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bibliometric-api",
		Short: "Bibliometric analysis backend for scientific publication corpora",
		Long: `bibliometric-api acquires, deduplicates, compares and clusters
scientific publication abstracts, and serves all four engines over a
REST API versioned under /api/v1.`,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bibliometric-api.yaml)")
	root.AddCommand(newServeCmd())
	root.AddCommand(newWatchCmd())
	return root
}

func newWatchCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Watch an acquisition job's progress in a terminal UI",
		Long: `Poll a running server's job status endpoint and render live
progress for one acquisition job until it reaches a terminal state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(addr, args[0])
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "bibliometric-api server base URL")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the bibliometric analysis backend's HTTP server.

Examples:
  # Start server on the configured default port
  bibliometric-api serve

  # Start on a custom port
  bibliometric-api serve --port 9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")
	return cmd
}

func runServe(ctx context.Context, port int, host string) error {
	log := logger.Get()
	log.Info("starting bibliometric-api")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	serverCfg := cfg.Server
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	rateLimit := time.Duration(cfg.Acquisition.DefaultRateLimitSeconds * float64(time.Second))
	sources := source.NewRegistry()
	sources.Register(source.NewMockSource("mock", rateLimit))
	sources.Register(source.NewDeterministicHTMLListingSource("html_listing", rateLimit))

	jobs := job.NewRegistry()
	pipeline := acquisition.New(sources, jobs, cfg.Acquisition)

	modelCache := similarity.NewModelCache()
	simReg := similarity.NewRegistry(modelCache)

	stopEviction := startEvictionLoop(jobs, cfg.Acquisition.JobTTLSeconds)
	defer close(stopEviction)

	srv := server.New(pipeline, simReg, serverCfg)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("server listening on http://%s:%d", serverCfg.Host, serverCfg.Port))
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("server shutdown initiated", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed, forcing close", "error", err)
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info("server stopped successfully")
	}

	return nil
}

// startEvictionLoop runs job.Registry.EvictExpired on a ticker and returns a
// channel that stops the loop when closed, the supplemented TTL-eviction
// feature named in SPEC_FULL.md.
func startEvictionLoop(jobs *job.Registry, ttlSeconds int) chan struct{} {
	stop := make(chan struct{})
	if ttlSeconds <= 0 {
		return stop
	}
	ttl := time.Duration(ttlSeconds) * time.Second

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				jobs.EvictExpired(time.Now(), ttl)
			case <-stop:
				return
			}
		}
	}()
	return stop
}
