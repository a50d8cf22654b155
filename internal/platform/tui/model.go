package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/metrics"
	"github.com/vovakirdan/tui-idle/internal/registry"
)

// AutosaveInterval is how much play time passes between automatic saves.
const AutosaveInterval = 30 * time.Second

// GameModel is the Bubble Tea model for one idle game in play.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      Store
	player     *Player
	config     core.RuntimeConfig
	logger     *log.Logger
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	gen        uint64
	sinceSave  int // Ticks since the last save
	standalone bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for game and resumes the player's saved run, if
// any, crediting income for the time since it was saved. store may be nil.
func NewGameModel(game registry.Game, store Store, player *Player, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if player == nil {
		p := LocalPlayer()
		player = &p
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		player:     player,
		config:     cfg,
		logger:     logger,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		gen:        nextTickGen(),
	}
	game.Reset(cfg)
	m.resume()
	m.gameState = game.State()
	return m
}

func (m *GameModel) resume() {
	if m.store == nil {
		return
	}
	id := m.game.ID()
	snap, err := m.store.LoadGame(m.player.Owner, id)
	if err != nil {
		m.logger.Error("Cannot load save", "game", id, "owner", m.player.Owner, "err", err)
		return
	}
	if snap == nil {
		return
	}
	if err := m.game.Restore(*snap); err != nil {
		m.logger.Warn("Discarding incompatible save", "game", id, "err", err)
		return
	}

	rep := m.game.Advance(time.Since(snap.UpdatedAt))
	metrics.ObserveOffline(id, rep)
	m.logger.Info("Resumed game", "game", id, "owner", m.player.Owner,
		"away", rep.Elapsed.Round(time.Second), "credited", rep.Credited.Round(time.Second))
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Only the view changes; an idle run survives any resize.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen || m.quitting || m.backToMenu {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.Save()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		m.Save()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	metrics.ObserveEvents(m.game.ID(), result.Events)
	m.inputFrame.Clear()

	m.sinceSave++
	if m.sinceSave >= m.autosaveTicks() {
		m.Save()
	}

	return m, tickCmd(m.config.TickRate, m.gen)
}

func (m GameModel) autosaveTicks() int {
	return int(AutosaveInterval / m.config.TickDuration())
}

// Save writes the run to the store and updates the player's record.
// Failures are logged; the game continues regardless.
func (m *GameModel) Save() {
	m.sinceSave = 0
	if m.store == nil {
		return
	}
	id := m.game.ID()
	snap := m.game.Snapshot()
	snap.UpdatedAt = time.Now()

	err := m.store.SaveGame(m.player.Owner, snap)
	metrics.ObserveSave(id, err)
	if err != nil {
		m.logger.Error("Cannot save game", "game", id, "owner", m.player.Owner, "err", err)
		return
	}

	session, err := m.store.RecordPeak(m.player.SessionID, id, snap.Peak)
	if err != nil {
		m.logger.Error("Cannot record peak", "game", id, "err", err)
		return
	}
	m.player.SessionID = session
	m.logger.Debug("Saved game", "game", id, "owner", m.player.Owner)
}

// saveScreenshot writes the current screen to ~/.idle/screenshots.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("Cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".idle", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("Cannot save screenshot", "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("Cannot save screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state after the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// BackToMenu reports whether the player left the game for the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the player asked to end the session.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Run plays a single game in the terminal. Esc and q both save and exit.
func Run(game registry.Game, store Store, player Player, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(game, store, &player, cfg, logger)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
