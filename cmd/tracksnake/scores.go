package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tracksnake/internal/config"
	"github.com/vovakirdan/tracksnake/internal/leaderboard"
	"github.com/vovakirdan/tracksnake/internal/platform/tui"
	"github.com/vovakirdan/tracksnake/internal/storage"
)

var (
	flagLimit   int
	flagTUI     bool
	flagUser    string
	flagClear   bool
	flagSession bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the top scores.

With the sqlite backend the scores come from the local database; with the
http backend they are fetched from leaderboard.url.

Examples:
  tracksnake scores
  tracksnake scores --limit 20
  tracksnake scores --user alice
  tracksnake scores --sessions
  tracksnake scores --tui`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 0, "Number of entries (default: leaderboard.limit)")
	scoresCmd.Flags().BoolVar(&flagTUI, "tui", false, "Browse scores and recent games interactively")
	scoresCmd.Flags().StringVar(&flagUser, "user", "", "Only show scores of this player")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all local scores")
	scoresCmd.Flags().BoolVar(&flagSession, "sessions", false, "Show recent games instead of top scores")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	limit := flagLimit
	if limit <= 0 {
		limit = cfg.Leaderboard.Limit
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.Leaderboard.Backend == config.BackendHTTP {
		printRemoteScores(ctx, cfg, limit)
		return
	}

	// Open score storage
	store, err := storage.Open(cfg.Leaderboard.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearScores(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Println("All scores deleted.")
	case flagTUI && term.IsTerminal(int(os.Stdout.Fd())):
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
		}
	case flagSession:
		printSessions(ctx, store, limit)
	default:
		printLocalScores(ctx, store, limit)
	}
}

func printLocalScores(ctx context.Context, store *storage.Store, limit int) {
	var (
		scores []storage.ScoreEntry
		err    error
	)
	if flagUser != "" {
		scores, err = store.PlayerScores(ctx, flagUser, limit)
	} else {
		scores, err = store.TopScores(ctx, limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tracksnake play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-20s  %-6s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-20s  %-6s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-20s  %-6d  %s\n", i+1, entry.Username, entry.Score, dateStr)
	}

	fmt.Println()
	if flagUser != "" {
		if best, err := store.PersonalBest(ctx, flagUser); err == nil {
			fmt.Printf("Best for %s: %d\n", flagUser, best)
		}
		return
	}
	if stats, err := store.GetStats(ctx); err == nil {
		fmt.Printf("Best: %d  Games: %d  Players: %d  Average: %.1f\n",
			stats.HighScore, stats.GamesCount, stats.Players, stats.AvgScore)
	}
}

func printSessions(ctx context.Context, store *storage.Store, limit int) {
	sessions, err := store.RecentSessions(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
		return
	}

	fmt.Println("Recent Games")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No games played yet.")
		return
	}

	fmt.Printf("  %-16s  %-6s  %-6s  %-5s  %-6s  %s\n", "Player", "Score", "Tracks", "End", "Time", "Date")
	fmt.Printf("  %-16s  %-6s  %-6s  %-5s  %-6s  %s\n", "------", "-----", "------", "---", "----", "----")
	for _, s := range sessions {
		fmt.Printf("  %-16s  %-6d  %-6d  %-5s  %-6s  %s\n",
			s.Username, s.Score, s.TracksEaten, s.EndReason,
			(time.Duration(s.Duration) * time.Second).String(),
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printRemoteScores(ctx context.Context, cfg config.Config, limit int) {
	client := leaderboard.NewClient(cfg.Leaderboard.URL, &http.Client{Timeout: cfg.Spotify.Timeout})
	entries, err := client.Top(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", cfg.Leaderboard.URL)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-20s  %s\n", "Rank", "Player", "Score")
	fmt.Printf("  %-4s  %-20s  %s\n", "----", "------", "-----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-20s  %d\n", i+1, e.Username, e.Score)
	}
}
