package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a game from an interactive menu",
	Long: `Open the game picker. The menu shows each game's saved progress;
Tab opens the records board, Esc in a game saves and returns here.

Examples:
  idle menu
  idle menu --pace hard`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	opts, err := gameOptions("")
	exitOnError("in flags", err)

	logger, closeLog, err := fileLogger()
	exitOnError("opening log", err)
	defer closeLog()

	store := mustOpenStore()
	defer store.Close()

	if runErr := tui.RunSession(store, tui.LocalPlayer(), terminalConfig(), opts, logger); runErr != nil {
		store.Close()
		closeLog()
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
