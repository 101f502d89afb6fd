package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying the config file, SPOTIFY_TOKEN
and the global flags. The Spotify token is redacted.

Examples:
  tracksnake config
  tracksnake config --config ./my.yaml > ~/.tracksnake/configs/tracksnake.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	if cfg.Spotify.Token != "" {
		cfg.Spotify.Token = "<redacted>"
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", err)
		os.Exit(1)
	}
	//nolint:errcheck // Best-effort flush of stdout
	enc.Close()
}
