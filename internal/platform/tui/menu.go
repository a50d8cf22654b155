package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

// MenuItem is a selectable game in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Save   *storage.SaveSummary // nil when the player has no run for this game
}

// MenuModel is the Bubble Tea model for the game picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	format      bignum.Formatter
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem
	openRecords bool
}

// NewMenuModel lists the registered games alongside the player's saves.
func NewMenuModel(store Store, owner string, cfg core.RuntimeConfig, logger *log.Logger) MenuModel {
	saves := map[string]storage.SaveSummary{}
	if store != nil {
		list, err := store.ListSaves(owner)
		if err != nil && logger != nil {
			logger.Error("Cannot list saves", "owner", owner, "err", err)
		}
		for _, s := range list {
			saves[s.GameID] = s
		}
	}

	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if s, ok := saves[g.ID]; ok {
			item.Save = &s
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		format:    bignum.DefaultFormatter(),
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionRecords:
		if len(m.items) > 0 {
			m.openRecords = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  I D L E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(mutedStyle.Render("Pick a game. Your progress keeps growing while you are away."), m.width))
	b.WriteString("\n\n")

	lines := make([]string, len(m.items))
	for i, item := range m.items {
		cursor := "  "
		title := item.Title
		if i == m.cursor {
			cursor = "> "
			title = cursorStyle.Render(title)
		}
		lines[i] = fmt.Sprintf("%s%-16s %s", cursor, title, mutedStyle.Render(m.describe(item)))
	}
	if len(lines) == 0 {
		lines = append(lines, mutedStyle.Render("no games registered"))
	}
	box := frameStyle.Render(strings.Join(lines, "\n"))
	for _, line := range strings.Split(box, "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render("↑/↓ navigate · enter play · tab records · q quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

func (m MenuModel) describe(item MenuItem) string {
	if item.Save == nil {
		return "new game"
	}
	s := item.Save
	return fmt.Sprintf("Lv %d · %s · %s", s.Levels, m.format.Format(s.Currency), humanize.Time(s.UpdatedAt))
}

// Selected returns the chosen game, or nil if none was chosen.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Current returns the item under the cursor.
func (m MenuModel) Current() (MenuItem, bool) {
	if len(m.items) == 0 {
		return MenuItem{}, false
	}
	return m.items[m.cursor], true
}

// IsQuitting reports whether the player asked to leave.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRecords reports whether the player asked for the records board.
func (m MenuModel) WantsRecords() bool {
	return m.openRecords
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
