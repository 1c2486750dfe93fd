package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/core"
	"github.com/vovakirdan/arrowbeat/internal/registry"
)

// MenuItem represents a selectable song in the menu.
type MenuItem struct {
	SongID string
	Title  string
	Artist string
	BPM    float64
}

// MenuModel is the Bubble Tea model for the song picker menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	presets        []config.DifficultyPreset
	preset         int // index into presets
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects a song
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model with preset preselected.
func NewMenuModel(preset config.DifficultyPreset, cfg core.RuntimeConfig) MenuModel {
	songs := registry.List()
	items := make([]MenuItem, 0, len(songs))
	for _, s := range songs {
		items = append(items, MenuItem{
			SongID: s.ID,
			Title:  s.Title,
			Artist: s.Artist,
			BPM:    s.BPM,
		})
	}

	presets := config.Presets()
	idx := 0
	for i, p := range presets {
		if p == preset {
			idx = i
		}
	}

	return MenuModel{
		items:     items,
		presets:   presets,
		preset:    idx,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
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
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
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

	case MenuActionLeft:
		if m.preset > 0 {
			m.preset--
		}

	case MenuActionRight:
		if m.preset < len(m.presets)-1 {
			m.preset++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start the song
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
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
	b.WriteString(centerText("  A R R O W B E A T  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a song", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("No songs configured", m.width))
		b.WriteString("\n")
	}
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-18s %-14s %3.0f BPM", cursor, item.Title, item.Artist, item.BPM)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	// Difficulty selector
	b.WriteString("\n")
	parts := make([]string, len(m.presets))
	for i, p := range m.presets {
		if i == m.preset {
			parts[i] = "[" + strings.ToUpper(p.String()) + "]"
		} else {
			parts[i] = " " + p.String() + " "
		}
	}
	b.WriteString(centerText("Difficulty: "+strings.Join(parts, " "), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Song  |  Left/Right: Difficulty  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")
	b.WriteString(centerText("In game: arrows or D F J K", m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Preset returns the chosen difficulty.
func (m MenuModel) Preset() config.DifficultyPreset {
	if len(m.presets) == 0 {
		return config.DifficultyNormal
	}
	return m.presets[m.preset]
}

// Cursor returns the song ID under the cursor.
func (m MenuModel) Cursor() string {
	if len(m.items) == 0 {
		return ""
	}
	return m.items[m.cursor].SongID
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	SongID          string
	Difficulty      config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(preset config.DifficultyPreset, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(preset, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	return m.result(), nil
}

func (m MenuModel) result() MenuResult {
	result := MenuResult{
		Config:     m.Config(),
		Difficulty: m.Preset(),
		SongID:     m.Cursor(),
	}

	if m.WantsScoreboard() {
		result.WantsScoreboard = true
		return result
	}

	if m.IsQuitting() || m.Selected() == nil {
		result.Quit = true
		return result
	}

	result.SongID = m.Selected().SongID
	return result
}
