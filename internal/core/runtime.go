package core

import (
	"time"

	"github.com/vovakirdan/tui-idle/internal/bignum"
)

// RuntimeConfig is passed to games on Reset.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second
}

// DefaultConfig returns an 80x24 screen at 20 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 20,
	}
}

// TickDuration returns the wall time of one tick.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is the status a game reports to the platform after each tick.
type GameState struct {
	Currency bignum.Number // Current balance
	Income   bignum.Number // Production per second
	Peak     bignum.Number // Highest balance this run
	Ticks    int64         // Simulated ticks since the run started
	Paused   bool
}

// EventKind classifies a StepResult event.
type EventKind int

const (
	EventPurchase  EventKind = iota // Levels were bought
	EventMilestone                  // A track crossed a breakthrough threshold
)

// Event reports something that happened during a tick.
type Event struct {
	Kind   EventKind
	Track  string        // Track ID
	Levels int64         // Levels bought (EventPurchase)
	Cost   bignum.Number // Amount spent (EventPurchase)
	Level  int64         // Level reached
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State  GameState
	Events []Event
}

// OfflineReport describes production credited for time away from the game.
type OfflineReport struct {
	Elapsed  time.Duration // Time the player was away
	Credited time.Duration // Portion that earned income, after the cap
	Gain     bignum.Number // Currency added
}
