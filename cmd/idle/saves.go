package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

var (
	flagSavesOwner  string
	flagSavesDelete string
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List or delete saved runs",
	Long: `List the saved runs of an owner, or delete one to start that game over.
Local play saves under the owner "local"; SSH players save under their
user name.

Examples:
  idle saves
  idle saves --owner alice
  idle saves --delete garden`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

func init() {
	savesCmd.Flags().StringVar(&flagSavesOwner, "owner", storage.LocalOwner, "Save owner (SSH user name, or local)")
	savesCmd.Flags().StringVar(&flagSavesDelete, "delete", "", "Delete the save for this game")
}

func runSaves(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	if flagSavesDelete != "" {
		deleted, err := store.DeleteSave(flagSavesOwner, flagSavesDelete)
		exitOnError("deleting save", err)
		if deleted {
			fmt.Printf("Deleted %s save for %s.\n", flagSavesDelete, flagSavesOwner)
		} else {
			fmt.Printf("No %s save for %s.\n", flagSavesDelete, flagSavesOwner)
		}
		return
	}

	saves, err := store.ListSaves(flagSavesOwner)
	exitOnError("listing saves", err)

	if len(saves) == 0 {
		fmt.Printf("No saves for %s.\n", flagSavesOwner)
		return
	}

	format := bignum.DefaultFormatter()
	fmt.Printf("  %-10s  %-12s  %-12s  %-6s  %s\n", "Game", "Balance", "Peak", "Levels", "Saved")
	fmt.Printf("  %-10s  %-12s  %-12s  %-6s  %s\n", "----", "-------", "----", "------", "-----")
	for _, s := range saves {
		fmt.Printf("  %-10s  %-12s  %-12s  %-6d  %s\n",
			s.GameID, format.Format(s.Currency), format.Format(s.Peak), s.Levels, humanize.Time(s.UpdatedAt))
	}
}
