// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"playlistify/internal/config"
	"playlistify/internal/fetch"
	"playlistify/internal/store"
	"playlistify/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagPlayer      string
	flagJSON        bool
	flagDebug       bool
	flagConcurrency int
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger writes structured logs to stderr at the configured level.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "playlistify [url...]",
	Short: "Turn the players embedded in web pages into playlists",
	Long: `Playlistify fetches web pages, finds the YouTube and SoundCloud players
embedded in them, and turns them into playlists you can save and play.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              scrapeRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output playlists as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().IntVar(&flagConcurrency, "concurrency", 0, "Pages fetched in parallel (1-16)")

	addScrapeFlags(rootCmd)

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(playlistsCmd)
	rootCmd.AddCommand(laterCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagConcurrency != 0 {
		cfg.Concurrency = flagConcurrency
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err = buildLogger(cfg.Level(), cfg.Debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	return nil
}

// buildLogger creates a stderr logger. Debug mode switches to the
// human-readable development encoder.
func buildLogger(level string, debug bool) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if debug {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(zapLevel)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

func newFetcher() *fetch.Fetcher {
	return fetch.New(fetch.Options{
		Timeout:     cfg.RequestTimeout(),
		UserAgent:   cfg.UserAgent,
		RateLimit:   cfg.RateLimit,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
}

func openStore() (*store.Store, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	logger.Debug("opening store", zap.String("path", path))
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

func newRenderer() *ui.Renderer {
	return ui.NewRenderer(os.Stdout, ui.IsTerminal(os.Stdout))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("playlistify " + Version)
	},
}
