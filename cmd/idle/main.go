// idle is a terminal incremental game platform: grow a currency, buy upgrade
// tracks whose prices climb geometrically, and keep earning while away.
//
// Usage:
//
//	idle list                 - List available games
//	idle play <game>          - Play a game
//	idle menu                 - Pick games interactively
//	idle serve                - Serve the games over SSH (and HTTP status)
//	idle records <game>       - Show the best peaks for a game
//	idle saves                - List or delete saved runs
//	idle calc <tool>          - Economy calculators for ruleset design
//
// Global flags:
//
//	--fps <rate>         - Tick rate (default: 20)
//	--db <path>          - Database path (default: ~/.idle/idle.db)
//	--config <path>      - Ruleset YAML for play
//	--pace <preset>      - relaxed, normal or hard
//	--notation <name>    - scientific, standard or engineering
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/config"
	_ "github.com/vovakirdan/tui-idle/internal/idle" // registers the built-in games
	"github.com/vovakirdan/tui-idle/internal/platform/tui"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

var (
	flagFPS      int
	flagDBPath   string
	flagConfig   string
	flagPace     string
	flagNotation string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "idle",
	Short: "Idle - incremental games in your terminal",
	Long: `Idle is a terminal platform for incremental games. Buy upgrade tracks,
watch the numbers climb past 1e308, and come back later to collect what
your garden grew while you were away.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker
  serve    - Serve the games over SSH
  records  - View the best peaks
  saves    - Manage saved runs
  calc     - Economy calculators

Examples:
  idle list
  idle play garden
  idle play forge --pace hard --notation engineering
  idle menu
  idle serve --ssh :2222 --http :8080
  idle records technique
  idle calc buymax --base 10 --scale 1.07 --budget 1e6`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 20, "Tick rate (simulation steps per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.idle/idle.db", "Path to the saves database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a custom ruleset YAML (play only)")
	rootCmd.PersistentFlags().StringVar(&flagPace, "pace", "", "Pace preset: relaxed, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagNotation, "notation", "", "Number notation: scientific, standard, engineering")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(calcCmd)
}

// newLogger creates the structured logger for w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// fileLogger logs to ~/.idle/idle.log so the full-screen UI stays clean.
// The returned close function is never nil.
func fileLogger() (*log.Logger, func(), error) {
	noop := func() {}
	home, err := os.UserHomeDir()
	if err != nil {
		logger, lerr := newLogger(io.Discard, "idle")
		return logger, noop, lerr
	}
	dir := filepath.Join(home, ".idle")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, noop, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "idle.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, noop, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f, "idle")
	if err != nil {
		f.Close()
		return nil, noop, err
	}
	return logger, func() { f.Close() }, nil
}

// gameOptions validates the pace and notation flags.
func gameOptions(configPath string) (tui.GameOptions, error) {
	pace, err := config.ParsePace(flagPace)
	if err != nil {
		return tui.GameOptions{}, err
	}
	if flagNotation != "" {
		if _, err := bignum.ParseNotation(flagNotation); err != nil {
			return tui.GameOptions{}, err
		}
	}
	return tui.GameOptions{Pace: pace, Notation: flagNotation, ConfigPath: configPath}, nil
}

// requireGame exits with a hint when id is not a registered game.
func requireGame(id string) {
	if !registry.Exists(id) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'idle list' to see available games.")
		os.Exit(1)
	}
}

// mustOpenStore opens the database or exits.
func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func exitOnError(context string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
		os.Exit(1)
	}
}
