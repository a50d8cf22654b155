package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-idle/internal/core"
)

type screenKind int

const (
	screenMenu screenKind = iota
	screenGame
	screenRecords
)

// activeRun tracks the game on screen so it can be saved when the program
// stops without the player leaving it, e.g. a dropped SSH connection.
type activeRun struct {
	mu   sync.Mutex
	game *GameModel
}

func (r *activeRun) set(g *GameModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.game = g
}

func (r *activeRun) flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game != nil {
		r.game.Save()
		r.game = nil
	}
}

// SessionModel manages the whole session flow: menu -> game or records -> menu.
// It is the top-level model for both `idle menu` and SSH sessions.
type SessionModel struct {
	store     Store
	player    *Player
	config    core.RuntimeConfig
	options   GameOptions
	logger    *log.Logger
	screen    screenKind
	menu      MenuModel
	gameModel *GameModel
	records   RecordsModel
	run       *activeRun
	status    string // Shown above the menu after a failed start
	quitting  bool
}

// NewSessionModel creates a session for player.
func NewSessionModel(store Store, player Player, cfg core.RuntimeConfig, opts GameOptions, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		store:   store,
		player:  &player,
		config:  cfg,
		options: opts,
		logger:  logger,
		menu:    NewMenuModel(store, player.Owner, cfg, logger),
		run:     &activeRun{},
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenRecords:
		return m.updateRecords(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menu, ok := newMenu.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsRecords():
		current, _ := m.menu.Current()
		m.records = NewRecordsModel(m.store, current.GameID, m.player.SessionID, m.config.ScreenW, m.config.ScreenH, m.logger)
		m.screen = screenRecords
		return m, m.records.Init()

	case m.menu.Selected() != nil:
		id := m.menu.Selected().GameID
		game, err := CreateGame(id, m.options)
		if err != nil {
			m.logger.Error("Cannot start game", "game", id, "err", err)
			m.status = "Cannot start " + id + ": " + err.Error()
			m.menu = NewMenuModel(m.store, m.player.Owner, m.config, m.logger)
			return m, nil
		}

		m.status = ""
		gm := NewGameModel(game, m.store, m.player, m.config, m.logger)
		m.gameModel = &gm
		m.run.set(m.gameModel)
		m.screen = screenGame
		return m, gm.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gm, ok := newModel.(GameModel); ok {
		m.gameModel = &gm
		m.run.set(m.gameModel)
	}

	if m.gameModel.IsQuitting() {
		m.run.set(nil)
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.run.set(nil)
		m.gameModel = nil
		return m.showMenu()
	}
	return m, cmd
}

func (m SessionModel) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.records.Update(msg)
	if rm, ok := newModel.(RecordsModel); ok {
		m.records = rm
	}

	if m.records.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.records.IsGoingBack() {
		return m.showMenu()
	}
	return m, cmd
}

func (m SessionModel) showMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.store, m.player.Owner, m.config, m.logger)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenRecords:
		return m.records.View()
	}
	if m.status != "" {
		return colorStyles[core.ColorWarning].Render(m.status) + "\n" + m.menu.View()
	}
	return m.menu.View()
}

// Flush saves the game on screen, if any. Call it once the program has stopped.
func (m SessionModel) Flush() {
	m.run.flush()
}

// Player returns the session's identity. SessionID is filled in after the first save.
func (m SessionModel) Player() Player {
	return *m.player
}

// RunSession runs the menu-driven session in this terminal.
func RunSession(store Store, player Player, cfg core.RuntimeConfig, opts GameOptions, logger *log.Logger) error {
	model := NewSessionModel(store, player, cfg, opts, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if sm, ok := final.(SessionModel); ok {
		sm.Flush()
	}
	return err
}
