package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/poppy/internal/leaderboard"
	"github.com/vovakirdan/poppy/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Poppy SSH and leaderboard servers",
	Long: `Start an SSH server that lets users connect and play, plus an HTTP
server with the leaderboard API.

Each SSH connection gets its own session with a mode picker menu and plays
under its SSH user name. Scores are stored per-server, so all users share
the same leaderboard.

HTTP endpoints:
  GET /healthz
  GET /api/modes
  GET /api/leaderboard/{mode}?duration=30&limit=10

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.poppy/host_key

Examples:
  poppy serve                       # SSH on :23235, HTTP on :8080
  poppy serve --ssh :2222           # Listen on port 2222
  poppy serve --http ""             # SSH only
  poppy serve --db ./scores.db      # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "Leaderboard HTTP address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	a, err := newApp(os.Stderr, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.store == nil {
		a.logger.Warn("serving without a scores database; nothing will be recorded")
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	sshServer, err := tui.NewSSHServer(cfg, a.launcher, a.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting SSH server", "addr", cfg.Address)
		errCh <- sshServer.ListenAndServe()
	}()

	var httpServer *http.Server
	if flagHTTPAddr != "" && a.store != nil {
		httpServer = &http.Server{
			Addr:              flagHTTPAddr,
			Handler:           leaderboard.NewServer(a.store, a.launcher.Modes, a.logger).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.logger.Info("starting leaderboard server", "addr", flagHTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			a.logger.Error("server error", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sshServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("SSH shutdown", "err", err)
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("HTTP shutdown", "err", err)
		}
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
