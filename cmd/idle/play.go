package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game. Your run is saved when you leave
and every 30 seconds while playing; it resumes where you left off,
with part of the income you would have earned while away.

Controls:
  Up/Down, W/S, K/J  - Select track
  B/Enter            - Buy one level
  M                  - Buy max
  A                  - Buy max on every track
  N                  - Cycle number notation
  P/Space            - Pause production
  Ctrl+S             - Screenshot to ~/.idle/screenshots
  Esc/Q/Ctrl+C       - Save and quit

Pace options:
  relaxed - Half prices, 1.5x output
  normal  - The ruleset as written
  hard    - Double prices, 0.75x output

Examples:
  idle play garden
  idle play technique --pace relaxed
  idle play garden --config ./my-garden.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]
	requireGame(gameID)

	opts, err := gameOptions(flagConfig)
	exitOnError("in flags", err)

	game, err := tui.CreateGame(gameID, opts)
	exitOnError("creating game", err)

	logger, closeLog, err := fileLogger()
	exitOnError("opening log", err)
	defer closeLog()

	store := mustOpenStore()
	defer store.Close()

	runErr := tui.Run(game, store, tui.LocalPlayer(), terminalConfig(), logger)
	if runErr != nil {
		store.Close()
		closeLog()
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// terminalConfig sizes the screen to the current terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	return cfg
}
