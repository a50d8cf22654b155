// Package config loads idle game rulesets from YAML and applies pace presets.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/progression"
)

// GameConfig is one playable ruleset: the currency, the upgrade tracks that
// produce it and the breakthrough table that multiplies their output.
type GameConfig struct {
	ID            string                 `yaml:"id"`
	Title         string                 `yaml:"title"`
	Description   string                 `yaml:"description"`
	Currency      string                 `yaml:"currency"`
	StartCurrency bignum.Number          `yaml:"start_currency"`
	Tracks        []TrackConfig          `yaml:"tracks"`
	Milestones    progression.Milestones `yaml:"milestones"`
	Format        FormatConfig           `yaml:"format"`
	Offline       OfflineConfig          `yaml:"offline"`
}

// TrackConfig describes one upgrade track.
type TrackConfig struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Base   float64 `yaml:"base"`   // Price of the first level
	Scale  float64 `yaml:"scale"`  // Price growth per level
	Output float64 `yaml:"output"` // Currency per second per level, before milestones
}

// Curve returns the track's cost curve.
func (t TrackConfig) Curve() progression.Curve {
	return progression.Curve{Base: t.Base, Scale: t.Scale}
}

// FormatConfig selects how numbers are displayed.
type FormatConfig struct {
	Notation  string `yaml:"notation"`  // scientific, standard or engineering
	Precision int    `yaml:"precision"` // Decimals after the point
}

// Formatter builds the bignum formatter for this config.
func (f FormatConfig) Formatter() (bignum.Formatter, error) {
	n, err := bignum.ParseNotation(f.Notation)
	if err != nil {
		return bignum.Formatter{}, err
	}
	return bignum.Formatter{Notation: n, Precision: f.Precision}, nil
}

// OfflineConfig controls progress credited while the game was closed.
type OfflineConfig struct {
	Enabled    bool    `yaml:"enabled"`
	MaxHours   float64 `yaml:"max_hours"`  // Cap on credited absence, 0 for none
	Efficiency float64 `yaml:"efficiency"` // Fraction of normal income, 0..1
}

// Cap returns the longest absence that is credited, or 0 when uncapped.
func (o OfflineConfig) Cap() time.Duration {
	return time.Duration(o.MaxHours * float64(time.Hour))
}

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("config: invalid game config")

// Validate reports rulesets the cost solver cannot price, along with missing IDs
// and out-of-range offline settings.
func (c GameConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidConfig)
	}
	if len(c.Tracks) == 0 {
		return fmt.Errorf("%w: %s has no tracks", ErrInvalidConfig, c.ID)
	}
	if c.StartCurrency.Sign() < 0 || c.StartCurrency.IsInf() {
		return fmt.Errorf("%w: %s start_currency must be finite and non-negative", ErrInvalidConfig, c.ID)
	}

	seen := make(map[string]bool, len(c.Tracks))
	for i, t := range c.Tracks {
		if t.ID == "" {
			return fmt.Errorf("%w: %s track #%d has no id", ErrInvalidConfig, c.ID, i+1)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: %s has duplicate track %q", ErrInvalidConfig, c.ID, t.ID)
		}
		seen[t.ID] = true

		if err := t.Curve().Validate(); err != nil {
			return fmt.Errorf("%w: %s track %q: %w", ErrInvalidConfig, c.ID, t.ID, err)
		}
		if !(t.Output > 0) || math.IsInf(t.Output, 0) {
			return fmt.Errorf("%w: %s track %q output must be positive, got %v", ErrInvalidConfig, c.ID, t.ID, t.Output)
		}
	}

	if err := c.Milestones.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, c.ID, err)
	}
	if _, err := c.Format.Formatter(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, c.ID, err)
	}
	if c.Format.Precision < 0 || c.Format.Precision > 6 {
		return fmt.Errorf("%w: %s format precision must be 0..6, got %d", ErrInvalidConfig, c.ID, c.Format.Precision)
	}
	if c.Offline.MaxHours < 0 || c.Offline.Efficiency < 0 || c.Offline.Efficiency > 1 {
		return fmt.Errorf("%w: %s offline settings out of range", ErrInvalidConfig, c.ID)
	}
	return nil
}

// applyDefaults fills fields a ruleset may leave out.
func (c *GameConfig) applyDefaults() {
	if c.Title == "" {
		c.Title = c.ID
	}
	if c.Currency == "" {
		c.Currency = "coins"
	}
	for i := range c.Tracks {
		if c.Tracks[i].Name == "" {
			c.Tracks[i].Name = c.Tracks[i].ID
		}
	}
	if len(c.Milestones.Fixed) == 0 && len(c.Milestones.Periodic) == 0 {
		c.Milestones = progression.DefaultMilestones()
	}
	if c.Format.Precision == 0 && c.Format.Notation == "" {
		c.Format.Precision = 2
	}
}
