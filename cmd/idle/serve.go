package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-idle/internal/httpapi"
	"github.com/vovakirdan/tui-idle/internal/platform/tui"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the idle SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH user name owns its own saves, so reconnecting as the same user
resumes the same runs. Records are shared by everyone on the server.

With --http, a status API runs alongside:
  /healthz                 - liveness and database check
  /metrics                 - Prometheus metrics
  /api/games               - games and their best peak
  /api/records/{game}      - top peaks (?limit=)
  /api/saves               - saved runs (?owner=)

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.idle/host_key

Examples:
  idle serve                           # Listen on :23234
  idle serve --ssh :2222 --http :8080  # SSH plus status API
  idle serve --db ./server.db

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP status address (host:port), disabled when empty")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, err := newLogger(os.Stderr, "idle-serve")
	exitOnError("in flags", err)

	opts, err := gameOptions("")
	exitOnError("in flags", err)

	store, err := storage.Open(flagDBPath)
	exitOnError("opening database", err)
	defer store.Close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Options = opts

	sshServer, err := tui.NewSSHServer(cfg, store, logger)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	var httpServer *httpapi.Server
	if flagHTTPAddr != "" {
		httpServer = httpapi.NewServer(flagHTTPAddr, store, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(sshServer.Start)
	if httpServer != nil {
		g.Go(httpServer.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		errs = append(errs, sshServer.Shutdown(shutdownCtx))
		if httpServer != nil {
			errs = append(errs, httpServer.Stop(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "err", err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
