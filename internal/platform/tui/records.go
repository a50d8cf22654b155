package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

const maxRecords = 100

// RecordsKeyMap defines the key bindings for the records board.
type RecordsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel shows the best peaks reached per game, one row per session.
type RecordsModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      Store
	sessionID  string // Highlighted as "you"
	logger     *log.Logger
	format     bignum.Formatter
	records    []storage.Record
	table      table.Model
	help       help.Model
	keys       RecordsKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
}

// NewRecordsModel creates a records board opened on gameID.
func NewRecordsModel(store Store, gameID, sessionID string, width, height int, logger *log.Logger) RecordsModel {
	m := RecordsModel{
		games:     registry.List(),
		store:     store,
		sessionID: sessionID,
		logger:    logger,
		format:    bignum.DefaultFormatter(),
		keys:      DefaultRecordsKeyMap(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
	for i, g := range m.games {
		if g.ID == gameID {
			m.gameCursor = i
		}
	}
	m.table = m.createTable()
	m.loadRecords()
	return m
}

func (m *RecordsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Peak", Width: 14},
		{Title: "Session", Width: 10},
		{Title: "When", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *RecordsModel) loadRecords() {
	m.records = nil
	if m.store != nil && len(m.games) > 0 {
		id := m.games[m.gameCursor].ID
		records, err := m.store.TopRecords(id, maxRecords)
		if err != nil && m.logger != nil {
			m.logger.Error("Cannot load records", "game", id, "err", err)
		}
		m.records = records
	}
	m.updateTableRows()
}

func (m *RecordsModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		session := shortSession(r.SessionID)
		if r.SessionID == m.sessionID {
			session = "you"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			m.format.Format(r.Peak),
			session,
			humanize.Time(r.CreatedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records board.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.loadRecords()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor - 1 + len(m.games)) % len(m.games)
				m.loadRecords()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the records board.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("RECORDS"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	content := m.table.View()
	if len(m.records) == 0 {
		content = mutedStyle.Italic(true).Padding(2, 4).Render("No records yet.\nPlay a while and your peak lands here.")
	}
	for _, line := range strings.Split(frameStyle.Render(content), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m RecordsModel) renderTabs() string {
	if len(m.games) == 0 {
		return ""
	}
	activeTab := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)

	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.gameCursor {
			tabs[i] = activeTab.Render(g.Title)
		} else {
			tabs[i] = mutedStyle.Render(" " + g.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if m.width > 0 && lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.games[m.gameCursor].Title)
	}
	return line
}

// GameID returns the game whose records are shown.
func (m RecordsModel) GameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

// IsGoingBack reports whether the player wants the menu again.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the player wants to leave entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}
