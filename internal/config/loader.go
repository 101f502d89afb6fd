package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched in the config directories.
const FileName = "tracksnake.yaml"

// TokenEnv is the environment variable overriding spotify.token.
const TokenEnv = "SPOTIFY_TOKEN"

// Load loads the configuration.
// Search order: customPath -> ~/.tracksnake/configs/tracksnake.yaml ->
// ./configs/tracksnake.yaml -> embedded default -> hardcoded default.
// Files are applied on top of the defaults, so they may be partial.
// The SPOTIFY_TOKEN environment variable overrides the file token.
func Load(customPath string) (Config, error) {
	cfg, err := load(customPath)
	if err != nil {
		return cfg, err
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Spotify.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(ExpandHome(customPath))
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tracksnake", "configs", filename)
}

// Dir returns the per-user data directory (~/.tracksnake).
func Dir() string {
	return ExpandHome("~/.tracksnake")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error

	if c.Game.TickPeriod <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_period must be positive, got %s", c.Game.TickPeriod))
	}
	if c.Spotify.NowPlayingInterval <= 0 || c.Spotify.PlaylistInterval <= 0 {
		errs = append(errs, errors.New("spotify polling intervals must be positive"))
	}

	switch c.Leaderboard.Backend {
	case BackendSQLite:
		if c.Leaderboard.DBPath == "" {
			errs = append(errs, errors.New("leaderboard.db_path is required for the sqlite backend"))
		}
	case BackendHTTP:
		if !strings.HasPrefix(c.Leaderboard.URL, "http://") && !strings.HasPrefix(c.Leaderboard.URL, "https://") {
			errs = append(errs, fmt.Errorf("leaderboard.url must be an http(s) URL, got %q", c.Leaderboard.URL))
		}
	case BackendNone:
	default:
		errs = append(errs, fmt.Errorf("unknown leaderboard.backend %q", c.Leaderboard.Backend))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
