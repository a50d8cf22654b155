package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/progression"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Economy calculators for ruleset design",
	Long: `Run the cost solver, milestone table and formatter directly.

A curve is given with --base and --scale, or taken from a shipped ruleset
with --game and --track.

Examples:
  idle calc cost --base 10 --scale 1.07 --level 0 --count 10
  idle calc buymax --game garden --track sprout --budget 1e6
  idle calc milestone 250
  idle calc format 1.5e33 --notation standard`,
}

var calcCostCmd = &cobra.Command{
	Use:   "cost",
	Short: "Price of the next --count levels from --level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		curve, err := calcCurve(cmd)
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetInt64("level")
		count, _ := cmd.Flags().GetInt64("count")
		return printCost(cmd.OutOrStdout(), curve, level, count)
	},
}

var calcBuyMaxCmd = &cobra.Command{
	Use:   "buymax",
	Short: "Levels a --budget buys from --level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		curve, err := calcCurve(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("budget")
		budget, err := bignum.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --budget: %w", err)
		}
		level, _ := cmd.Flags().GetInt64("level")
		printBuyMax(cmd.OutOrStdout(), curve, level, budget)
		return nil
	},
}

var calcMilestoneCmd = &cobra.Command{
	Use:   "milestone <level>",
	Short: "Output multiplier at a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || level < 0 {
			return fmt.Errorf("level must be a non-negative integer, got %q", args[0])
		}
		table := progression.DefaultMilestones()
		if game, _ := cmd.Flags().GetString("game"); game != "" {
			cfg, err := config.Embedded(game)
			if err != nil {
				return err
			}
			table = cfg.Milestones
		}
		printMilestone(cmd.OutOrStdout(), table, level)
		return nil
	},
}

var calcFormatCmd = &cobra.Command{
	Use:   "format <value>",
	Short: "Render a value in every notation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := bignum.Parse(args[0])
		if err != nil {
			return err
		}
		notations := []bignum.Notation{bignum.NotationScientific, bignum.NotationStandard, bignum.NotationEngineering}
		if name, _ := cmd.Flags().GetString("notation"); name != "" {
			only, err := bignum.ParseNotation(name)
			if err != nil {
				return err
			}
			notations = []bignum.Notation{only}
		}
		precision, _ := cmd.Flags().GetInt("precision")
		for _, notation := range notations {
			f := bignum.Formatter{Notation: notation, Precision: precision}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", notation, f.Format(n))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{calcCostCmd, calcBuyMaxCmd} {
		c.Flags().Float64("base", 10, "Price of the first level")
		c.Flags().Float64("scale", 1.07, "Price growth per level")
		c.Flags().Int64("level", 0, "Current level")
		c.Flags().String("game", "", "Take the curve from this ruleset (requires --track)")
		c.Flags().String("track", "", "Track ID within --game")
		c.MarkFlagsRequiredTogether("game", "track")
	}
	calcCostCmd.Flags().Int64("count", 1, "Levels to price")
	calcBuyMaxCmd.Flags().String("budget", "1e6", "Currency available")
	calcMilestoneCmd.Flags().String("game", "", "Use this ruleset's breakthrough table")
	calcFormatCmd.Flags().Int("precision", 2, "Mantissa decimals")

	calcCmd.AddCommand(calcCostCmd, calcBuyMaxCmd, calcMilestoneCmd, calcFormatCmd)
}

// calcCurve resolves the curve from --game/--track or --base/--scale.
func calcCurve(cmd *cobra.Command) (progression.Curve, error) {
	flags := cmd.Flags()
	game, _ := flags.GetString("game")
	if game == "" {
		base, _ := flags.GetFloat64("base")
		scale, _ := flags.GetFloat64("scale")
		return progression.NewCurve(base, scale)
	}
	cfg, err := config.Embedded(game)
	if err != nil {
		return progression.Curve{}, err
	}
	track, _ := flags.GetString("track")
	for _, t := range cfg.Tracks {
		if t.ID == track {
			return t.Curve(), nil
		}
	}
	return progression.Curve{}, fmt.Errorf("game %s has no track %q", game, track)
}

func printCost(w io.Writer, c progression.Curve, level, count int64) error {
	if level < 0 || count < 0 {
		return fmt.Errorf("--level and --count must not be negative")
	}
	format := bignum.DefaultFormatter()
	fmt.Fprintf(w, "curve        %g × %g^n\n", c.Base, c.Scale)
	fmt.Fprintf(w, "next level   %s\n", format.Format(c.NextLevelCost(level)))
	fmt.Fprintf(w, "Lv %d → %d   %s\n", level, level+count, format.Format(c.CostBetween(level, level+count)))
	return nil
}

func printBuyMax(w io.Writer, c progression.Curve, level int64, budget bignum.Number) {
	format := bignum.DefaultFormatter()
	p := c.BuyMax(level, budget)
	fmt.Fprintf(w, "budget       %s\n", format.Format(budget))
	fmt.Fprintf(w, "levels       %d (Lv %d → %d)\n", p.Levels, level, p.NewLevel)
	fmt.Fprintf(w, "cost         %s\n", format.Format(p.Cost))
	fmt.Fprintf(w, "left over    %s\n", format.Format(budget.Sub(p.Cost)))
	fmt.Fprintf(w, "next level   %s\n", format.Format(c.NextLevelCost(p.NewLevel)))
}

func printMilestone(w io.Writer, m progression.Milestones, level int64) {
	format := bignum.DefaultFormatter()
	fmt.Fprintf(w, "level        %d\n", level)
	fmt.Fprintf(w, "multiplier   ×%s\n", format.Format(m.Multiplier(level)))
	if next, ok := m.NextMilestone(level); ok {
		fmt.Fprintf(w, "next         Lv %d (×%s)\n", next, format.Format(m.Multiplier(next)))
	}
}
