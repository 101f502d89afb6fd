package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matryer/way"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tracksnake/internal/leaderboard"
	"github.com/vovakirdan/tracksnake/internal/platform/tui"
	"github.com/vovakirdan/tracksnake/internal/snake"
	"github.com/vovakirdan/tracksnake/internal/spectate"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagPlayback    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tracksnake SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game. All sessions share the server's
Spotify account and leaderboard. Since every player would control the same
Spotify player, playback is off unless --playback is given.

With --http the server also exposes:
  GET/POST /leaderboard   - Leaderboard API (JSON)
  GET      /spectate      - Websocket feed of running games

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key from the config

Examples:
  tracksnake serve                       # Listen on :23234
  tracksnake serve --ssh :2222           # Listen on port 2222
  tracksnake serve --http :8080          # Also serve leaderboard and spectators

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default: server.ssh_addr)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (default: server.http_addr, empty disables)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default: server.idle_timeout)")
	serveCmd.Flags().BoolVar(&flagPlayback, "playback", false, "Start eaten tracks on the server's Spotify player")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHTTPAddr != "" {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	cfg.Playback.Enabled = flagPlayback

	logger := newLogger(os.Stderr, "tracksnake-ssh", cfg)

	c := buildDeps(cfg, logger)
	defer c.Close()

	hub := spectate.NewHub(logger.WithPrefix("spectate"))
	defer hub.Close()
	c.deps.Hub = hub

	sshCfg := tui.SSHServerConfig{
		Address:     cfg.Server.SSHAddr,
		HostKeyPath: cfg.Server.HostKey,
		IdleTimeout: cfg.Server.IdleTimeout,
	}
	if cfg.Server.HTTPAddr != "" {
		sshCfg.HTTPAddr = cfg.Server.HTTPAddr
		sshCfg.HTTPHandler = newRouter(c.deps.Board, cfg.Leaderboard.Limit, hub, logger)
	}

	server, err := tui.NewSSHServer(sshCfg, c.deps, sessionOptions(cfg, 80, 24))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting tracksnake SSH server on %s\n", sshCfg.Address)
	if sshCfg.HTTPAddr != "" {
		fmt.Printf("HTTP on %s (%s, %s)\n", sshCfg.HTTPAddr, leaderboard.Path, spectate.Path)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// newRouter serves the leaderboard API and the spectator feed.
func newRouter(board snake.Leaderboard, limit int, hub *spectate.Hub, logger *log.Logger) http.Handler {
	router := way.NewRouter()
	if board != nil {
		leaderboard.NewHandler(board, limit, logger.WithPrefix("leaderboard")).Mount(router)
	}
	router.Handle("GET", spectate.Path, hub)
	router.HandleFunc("GET", "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return router
}
