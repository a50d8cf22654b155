package tui

import (
	"fmt"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

// Store is the persistence a session needs. *storage.Store satisfies it.
type Store interface {
	SaveGame(owner string, snap core.Snapshot) error
	LoadGame(owner, gameID string) (*core.Snapshot, error)
	ListSaves(owner string) ([]storage.SaveSummary, error)
	RecordPeak(sessionID, gameID string, peak bignum.Number) (string, error)
	TopRecords(gameID string, limit int) ([]storage.Record, error)
}

// Player identifies who is playing: Owner scopes saves, SessionID scopes records.
type Player struct {
	Owner     string
	SessionID string
}

// LocalPlayer returns the identity used for games played in this terminal.
func LocalPlayer() Player {
	return Player{Owner: storage.LocalOwner, SessionID: storage.NewSessionID()}
}

// GameOptions customizes the games a session creates.
type GameOptions struct {
	Pace       config.Pace
	Notation   string // Overrides the ruleset's notation when set
	ConfigPath string // Explicit ruleset file; otherwise the usual search order applies
}

// CreateGame instantiates a registered game and, when it is configurable, loads
// its ruleset and applies the options.
func CreateGame(id string, opts GameOptions) (registry.Game, error) {
	game, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	c, ok := game.(registry.Configurable)
	if !ok {
		return game, nil
	}

	cfg, err := config.Load(id, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	config.ApplyPace(&cfg, opts.Pace)
	if opts.Notation != "" {
		cfg.Format.Notation = opts.Notation
	}
	if err := c.Configure(cfg); err != nil {
		return nil, fmt.Errorf("tui: cannot configure %s: %w", id, err)
	}
	return game, nil
}
