// tracksnake is a terminal snake game whose food is the music you are
// listening to.
//
// Usage:
//
//	tracksnake play     - Play in this terminal
//	tracksnake serve    - Start SSH server for remote play
//	tracksnake scores   - Show the leaderboard
//	tracksnake config   - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.tracksnake/configs, ./configs)
//	--tick <duration>   - Simulation tick period (default: 150ms)
//	--seed <value>      - RNG seed for reproducible food placement
//	--db <path>         - Scores database (default: ~/.tracksnake/scores.db)
//	--token <token>     - Spotify access token (or SPOTIFY_TOKEN)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tracksnake/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagTick     time.Duration
	flagSeed     int64
	flagDBPath   string
	flagToken    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tracksnake",
	Short: "Snake, fed by your Spotify playlist",
	Long: `tracksnake is a terminal snake game. Every piece of food is a track
from the playlist you are listening to on Spotify: eat it and the track
starts playing, while the board takes on the colors of the album covers
you have eaten.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  scores   - View the leaderboard
  config   - Print the effective configuration

Examples:
  SPOTIFY_TOKEN=... tracksnake play
  tracksnake play --tick 100ms
  tracksnake serve --ssh :2222 --http :8080
  tracksnake scores --tui`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().DurationVar(&flagTick, "tick", 0, "Tick period (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (empty = from config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Spotify access token")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the config file and applies the global flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagTick > 0 {
		cfg.Game.TickPeriod = flagTick
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Leaderboard.DBPath = flagDBPath
	}
	if flagToken != "" {
		cfg.Spotify.Token = flagToken
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	return cfg, cfg.Validate()
}

// mustLoadConfig loads the configuration or exits.
func mustLoadConfig() config.Config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
