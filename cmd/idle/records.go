package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/registry"
)

var (
	flagRecordsLimit int
	flagRecordsClear bool
)

var recordsCmd = &cobra.Command{
	Use:   "records <game>",
	Short: "Show the best peaks for a game",
	Long: `Display the highest balances reached in a game, one row per session.

Examples:
  idle records garden
  idle records forge --limit 25 --notation engineering
  idle records garden --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&flagRecordsLimit, "limit", 10, "Number of records to show")
	recordsCmd.Flags().BoolVar(&flagRecordsClear, "clear", false, "Delete every record for the game")
}

func runRecords(_ *cobra.Command, args []string) {
	gameID := args[0]
	requireGame(gameID)

	game, err := registry.Create(gameID)
	exitOnError("creating game", err)

	format := bignum.DefaultFormatter()
	if flagNotation != "" {
		n, err := bignum.ParseNotation(flagNotation)
		exitOnError("in flags", err)
		format.Notation = n
	}

	store := mustOpenStore()
	defer store.Close()

	if flagRecordsClear {
		exitOnError("clearing records", store.ClearRecords(gameID))
		fmt.Printf("Records for %s cleared.\n", game.Title())
		return
	}

	records, err := store.TopRecords(gameID, flagRecordsLimit)
	exitOnError("retrieving records", err)

	fmt.Printf("Records - %s\n", game.Title())
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No records yet.")
		fmt.Println()
		fmt.Printf("Play 'idle play %s' to set the first one!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-14s  %-8s  %s\n", "Rank", "Peak", "Session", "When")
	fmt.Printf("  %-4s  %-14s  %-8s  %s\n", "----", "----", "-------", "----")
	for i, r := range records {
		session := r.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		fmt.Printf("  %-4d  %-14s  %-8s  %s\n", i+1, format.Format(r.Peak), session, humanize.Time(r.CreatedAt))
	}
}
