package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tracksnake/internal/platform/tui"
)

var (
	flagName       string
	flagNoPlayback bool
	flagAvoidSnake bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Food is drawn from the playlist currently playing on your Spotify account.
Eating a track starts it (Spotify Premium required); without a token or an
active playlist the game uses filler food.

Controls:
  Arrows/WASD/HJKL  - Turn
  Mouse drag        - Swipe to turn
  R                 - Play again (after game over)
  Enter             - Submit score (after game over)
  ?                 - Toggle help
  Q/Ctrl+C          - Quit

Examples:
  SPOTIFY_TOKEN=... tracksnake play
  tracksnake play --name alice
  tracksnake play --no-playback --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Name prefilled for score submission (default: $USER)")
	playCmd.Flags().BoolVar(&flagNoPlayback, "no-playback", false, "Do not start eaten tracks on Spotify")
	playCmd.Flags().BoolVar(&flagAvoidSnake, "avoid-snake", false, "Never place food under the snake")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	if flagNoPlayback {
		cfg.Playback.Enabled = false
	}
	if flagAvoidSnake {
		cfg.Game.AvoidSnake = true
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := openLogFile(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logOut := os.Stderr
	if logFile != nil {
		logOut = logFile
		defer logFile.Close()
	}
	logger := newLogger(logOut, "tracksnake", cfg)

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	c := buildDeps(cfg, logger)
	defer c.Close()

	opts := sessionOptions(cfg, width, height)
	opts.Username = flagName
	if opts.Username == "" {
		opts.Username = os.Getenv("USER")
	}

	logger.Info("starting game", "tick", cfg.Game.TickPeriod, "playback", cfg.Playback.Enabled, "leaderboard", cfg.Leaderboard.Backend)
	if err := tui.Run(c.deps, opts); err != nil {
		c.Close()
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
