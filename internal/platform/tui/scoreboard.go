package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arrowbeat/internal/leaderboard"
	"github.com/vovakirdan/arrowbeat/internal/registry"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show song list sidebar
	sidebarWidth       = 22  // Width of song list sidebar
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextSong key.Binding
	PrevSong key.Binding
	Refresh  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextSong, k.PrevSong, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextSong, k.PrevSong},
		{k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev song"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next song"),
		),
		NextSong: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next song"),
		),
		PrevSong: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev song"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
// Each song has its own board; rankings are fetched without blocking the UI.
type ScoreboardModel struct {
	env         Env
	songs       []registry.SongInfo // Boards to browse
	songCursor  int                 // Currently selected song index
	scores      []leaderboard.Entry
	loadErr     error
	stale       bool
	loading     bool
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show song list sidebar
}

// NewScoreboardModel creates a new scoreboard model starting at songID, or
// at the first song if songID is empty or unknown.
func NewScoreboardModel(env Env, songID string, width, height int) ScoreboardModel {
	songs := registry.List()

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		env:         env,
		songs:       songs,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, s := range songs {
		if s.ID == songID {
			m.songCursor = i
		}
	}

	m.table = m.createTable()
	return m
}

// currentBoard returns the board of the selected song.
func (m ScoreboardModel) currentBoard() string {
	if len(m.songs) == 0 {
		return ""
	}
	return m.songs[m.songCursor].ID
}

// createTable creates a new table with columns sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Name", Width: leaderboard.MaxNameRunes},
		{Title: "Score", Width: 8},
		{Title: "Acc", Width: 5},
		{Title: "Combo", Width: 6},
		{Title: "Diff", Width: 7},
		{Title: "Date", Width: 12},
		{Title: "Message", Width: 10},
	}

	// Calculate available width for table
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	// The message column takes whatever is left.
	used := 0
	for _, c := range columns[:len(columns)-1] {
		used += c.Width + 2
	}
	if rest := tableWidth - used - 2; rest > 10 {
		columns[len(columns)-1].Width = min(rest, leaderboard.MaxMessageRunes)
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
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

// load requests the ranking of the selected song.
func (m *ScoreboardModel) load() tea.Cmd {
	board := m.currentBoard()
	if board == "" || m.env.Store == nil {
		m.scores = nil
		m.updateTableRows()
		return nil
	}
	m.loading = true
	return fetchBoardCmd(m.env, board)
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	m.table.SetRows(boardRows(m.scores))

	// Reset cursor to top
	m.table.GotoTop()
}

// boardRows converts ranked entries to table rows.
func boardRows(entries []leaderboard.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.DisplayName,
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d%%", e.Accuracy),
			fmt.Sprintf("%d", e.MaxCombo),
			e.Difficulty,
			e.SubmittedAt.Local().Format("Jan 02 15:04"),
			e.Message,
		}
	}
	return rows
}

// Init loads the first board.
func (m ScoreboardModel) Init() tea.Cmd {
	return m.load()
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.NextSong), key.Matches(msg, m.keys.Right):
			if len(m.songs) > 0 {
				m.songCursor = (m.songCursor + 1) % len(m.songs)
				return m, m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevSong), key.Matches(msg, m.keys.Left):
			if len(m.songs) > 0 {
				m.songCursor--
				if m.songCursor < 0 {
					m.songCursor = len(m.songs) - 1
				}
				return m, m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case boardLoadedMsg:
		// Drop answers for a board the user has already left.
		if msg.Board != m.currentBoard() {
			return m, nil
		}
		m.loading = false
		m.scores = msg.Entries
		m.loadErr = msg.Err
		m.stale = msg.Stale
		m.updateTableRows()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "HIGH SCORES"
	if len(m.songs) > 0 {
		title = fmt.Sprintf("HIGH SCORES - %s", m.songs[m.songCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: song tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with sidebar for song selection.
func (m ScoreboardModel) renderWideLayout() string {
	// Sidebar (song list)
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Songs\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, s := range m.songs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.songCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + truncateRunes(s.Title, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableRendered := tableStyle.Render(m.renderTableContent())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the scoreboard with song tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.songs) > 0 {
		current := m.songs[m.songCursor].Title
		b.WriteString(centerText(fmt.Sprintf("< %s >", current), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or a status message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.env.Store == nil:
		return emptyStyle.Render("No leaderboard configured.")
	case m.loadErr != nil:
		return errorStyle.Padding(2, 4).Render(submitErrorText(m.loadErr))
	case len(m.scores) == 0 && m.loading:
		return emptyStyle.Render("Loading...")
	case len(m.scores) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay this song to set a high score!")
	}

	out := m.table.View()
	if m.stale {
		out += "\n" + noticeStyle.Render("Leaderboard unreachable, showing cached scores")
	}
	return out
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(env Env, songID string, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(env, songID, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
