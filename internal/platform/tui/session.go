package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/core"
)

// view is the screen a session is showing.
type view int

const (
	viewMenu view = iota
	viewGame
	viewScoreboard
)

// SessionModel manages the full flow inside one program:
// menu -> song -> ranking -> menu, with the scoreboard reachable from the menu.
// SSH sessions and the local menu command both use it.
type SessionModel struct {
	env        Env
	config     core.RuntimeConfig
	id         string
	preset     config.DifficultyPreset
	lastSong   string
	view       view
	menu       MenuModel
	game       Model
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(env Env, cfg core.RuntimeConfig) SessionModel {
	preset := env.Rhythm.DefaultPreset()
	return SessionModel{
		env:    env,
		config: cfg,
		id:     uuid.NewString(),
		preset: preset,
		menu:   NewMenuModel(preset, cfg),
	}
}

// ID returns the unique session identifier.
func (m SessionModel) ID() string {
	return m.id
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}
	res := m.menu.result()
	m.preset = res.Difficulty

	switch {
	case res.WantsScoreboard:
		m.view = viewScoreboard
		m.scoreboard = NewScoreboardModel(m.env, res.SongID, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()

	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	// The menu's own tea.Quit is dropped below: inside a session, selecting
	// a song swaps the view instead of ending the program.
	case m.menu.Selected() != nil:
		game, notice, err := m.env.NewGame(res.SongID, res.Difficulty)
		if err != nil {
			// Shouldn't happen since the menu only shows registered songs
			m.menu = NewMenuModel(m.preset, m.config)
			return m, nil
		}
		m.lastSong = res.SongID
		m.game = NewModel(m.env, game, m.config)
		m.game.notice = notice
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates while a song or its ranking is shown.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.IsGoingBack() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates while browsing rankings.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.backToMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m *SessionModel) backToMenu() {
	m.view = viewMenu
	m.menu = NewMenuModel(m.preset, m.config)
	for i, item := range m.menu.items {
		if item.SongID == m.lastSong {
			m.menu.cursor = i
		}
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScoreboard:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}
