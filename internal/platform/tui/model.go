package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/core"
	"github.com/vovakirdan/arrowbeat/internal/games/rhythm"
	"github.com/vovakirdan/arrowbeat/internal/games/rhythm/engine"
	"github.com/vovakirdan/arrowbeat/internal/leaderboard"
)

// stage is the part of a run the model is showing.
type stage int

const (
	stagePlaying stage = iota
	stageEntry         // name and message entry after the song
	stageBoard         // ranking after submitting or skipping
)

const (
	fieldName = iota
	fieldMessage
)

// Model is the Bubble Tea model for playing one song, entering a name and
// viewing the song's ranking.
type Model struct {
	env        Env
	game       *rhythm.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper

	// run increments on every restart. Ticks and submissions carry the run
	// that created them so late messages from an earlier run are ignored.
	run   int
	stage stage

	result engine.Result
	fields [2]textinput.Model
	focus  int

	submitting bool
	submitErr  error
	submitted  *leaderboard.Entry

	board        []leaderboard.Entry
	boardErr     error
	boardLoading bool
	boardStale   bool

	notice     string
	startErr   error
	quitting   bool
	backToMenu bool
}

// NewModel creates a model for game. The game is owned by the model and is
// closed when the model quits or goes back.
func NewModel(env Env, game *rhythm.Game, cfg core.RuntimeConfig) Model {
	name := textinput.New()
	name.Prompt = "Name:    "
	name.Placeholder = leaderboard.Placeholder
	name.CharLimit = leaderboard.MaxNameRunes
	name.Width = leaderboard.MaxNameRunes + 1
	name.SetValue(truncateRunes(env.PlayerName, leaderboard.MaxNameRunes))

	msg := textinput.New()
	msg.Prompt = "Message: "
	msg.Placeholder = "optional"
	msg.CharLimit = leaderboard.MaxMessageRunes
	msg.Width = 40

	m := Model{
		env:        env,
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		fields:     [2]textinput.Model{name, msg},
	}
	m.startErr = game.Reset(cfg)
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	if m.startErr != nil {
		return nil
	}
	return tickCmd(m.config.TickRate, m.run)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case boardLoadedMsg:
		if msg.Board != m.game.ID() {
			return m, nil
		}
		m.boardLoading = false
		m.board = msg.Entries
		m.boardErr = msg.Err
		m.boardStale = msg.Stale
		return m, nil
	}

	if m.stage == stageEntry {
		return m.updateField(msg)
	}
	return m, nil
}

// handleKey processes keyboard input for the current stage.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	switch m.stage {
	case stagePlaying:
		return m.handlePlayingKey(msg)
	case stageEntry:
		return m.handleEntryKey(msg)
	default:
		return m.handleBoardKey(msg)
	}
}

func (m Model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.startErr != nil {
		m.backToMenu = true
		return m, tea.Quit
	}
	lane, isQuit := m.keyMapper.MapKeyToFrame(msg, &m.inputFrame)
	if isQuit {
		return m.quit()
	}
	// Lane presses are judged at the moment the key arrives, not on the
	// next frame.
	if lane != core.ActionNone {
		m.game.Press(lane)
	}
	return m, nil
}

func (m Model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.focus == fieldName {
			return m.focusField(fieldMessage)
		}
		return m.submit()
	case "tab", "shift+tab", "up", "down":
		return m.focusField(1 - m.focus)
	case "esc":
		// Skip submission and show the ranking.
		m.stage = stageBoard
		m.blurFields()
		return m, nil
	case "ctrl+r":
		return m.restart()
	}
	return m.updateField(msg)
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		return m.quit()
	case MenuActionRetry:
		return m.restart()
	case MenuActionBack, MenuActionSelect:
		m.backToMenu = true
		m.game.Close()
		return m, tea.Quit
	case MenuActionScoreboard:
		m.boardLoading = true
		return m, fetchBoardCmd(m.env, m.game.ID())
	}
	return m, nil
}

// handleTick advances the game by one frame. Ticks from an earlier run are
// dropped so a restart never runs two tick loops.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.run || m.stage != stagePlaying || m.startErr != nil {
		return m, nil
	}

	res := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	if res.Running {
		return m, tickCmd(m.config.TickRate, m.run)
	}
	// Leaving mid-song also lands here and shows the partial result.
	return m.enterResults()
}

// enterResults freezes the result and opens the entry form.
func (m Model) enterResults() (tea.Model, tea.Cmd) {
	m.result, _ = m.game.Result()
	m.boardLoading = m.env.Store != nil
	fetch := fetchBoardCmd(m.env, m.game.ID())

	if m.env.Store == nil {
		m.stage = stageBoard
		return m, nil
	}
	m.stage = stageEntry
	mm, focus := m.focusField(fieldName)
	return mm, tea.Batch(focus, fetch)
}

func (m Model) focusField(i int) (Model, tea.Cmd) {
	m.blurFields()
	m.focus = i
	return m, m.fields[i].Focus()
}

func (m *Model) blurFields() {
	for i := range m.fields {
		m.fields[i].Blur()
	}
}

func (m Model) updateField(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

// submit sends the result to the leaderboard without blocking the UI.
// A failed submission stays on the form so the player can try again.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting || m.submitted != nil || m.env.Store == nil {
		return m, nil
	}
	m.submitting = true
	m.submitErr = nil
	entry := leaderboard.Entry{
		Board:       m.game.ID(),
		DisplayName: m.fields[fieldName].Value(),
		Message:     m.fields[fieldMessage].Value(),
		Score:       m.result.Score,
		Accuracy:    m.result.Accuracy,
		MaxCombo:    m.result.MaxCombo,
		Difficulty:  m.game.Difficulty().String(),
	}
	return m, submitCmd(m.env, m.run, entry)
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if msg.run != m.run {
		return m, nil
	}
	m.submitting = false
	if msg.result.Err != nil {
		m.submitErr = msg.result.Err
		return m, nil
	}
	stored := msg.result.Entry
	m.submitted = &stored
	m.stage = stageBoard
	m.blurFields()
	m.boardLoading = true
	return m, fetchBoardCmd(m.env, m.game.ID())
}

// restart plays the same song again with a fresh pattern.
func (m Model) restart() (tea.Model, tea.Cmd) {
	m.run++
	m.stage = stagePlaying
	m.result = engine.Result{}
	m.submitting = false
	m.submitErr = nil
	m.submitted = nil
	m.blurFields()
	m.fields[fieldMessage].SetValue("")
	m.inputFrame.Clear()
	m.startErr = m.game.Reset(m.config)
	if m.startErr != nil {
		return m, nil
	}
	return m, tickCmd(m.config.TickRate, m.run)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.game.Close()
	return m, tea.Quit
}

// saveScreenshot saves the current playfield to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.startErr != nil {
		return centerText("Cannot start song: "+m.startErr.Error(), m.config.ScreenW) +
			"\n\n" + centerText("Press any key to go back", m.config.ScreenW)
	}
	if m.stage == stagePlaying {
		m.game.Render(m.screen)
		out := RenderScreen(m.screen)
		if m.notice != "" {
			out += "\n" + noticeStyle.Render(m.notice)
		}
		return out
	}
	return m.viewResults()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func (m Model) viewResults() string {
	r := m.result
	var summary strings.Builder
	summary.WriteString(titleStyle.Render(fmt.Sprintf("%s [%s]", m.game.Title(), m.game.Difficulty())))
	summary.WriteString("\n\n")
	fmt.Fprintf(&summary, "Score      %d\n", r.Score)
	fmt.Fprintf(&summary, "Accuracy   %d%%\n", r.Accuracy)
	fmt.Fprintf(&summary, "Max combo  %d\n", r.MaxCombo)
	fmt.Fprintf(&summary, "Hits       %d / %d\n", r.HitCount, r.TotalNotes)
	fmt.Fprintf(&summary, "Perfect %d  Good %d  Miss %d", r.Perfects, r.Goods, r.Misses)

	left := panelStyle.Render(summary.String())

	var b strings.Builder
	switch m.stage {
	case stageEntry:
		b.WriteString(left)
		b.WriteString("\n\n")
		b.WriteString(m.fields[fieldName].View())
		b.WriteString("\n")
		b.WriteString(m.fields[fieldMessage].View())
		b.WriteString("\n\n")
		switch {
		case m.submitting:
			b.WriteString(noticeStyle.Render("Submitting..."))
		case m.submitErr != nil:
			b.WriteString(errorStyle.Render(submitErrorText(m.submitErr)))
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("Enter: try again"))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Enter: next/submit  |  Tab: switch field  |  Esc: skip  |  Ctrl+R: retry"))
	default:
		board := panelStyle.Render(m.viewBoard())
		if m.config.ScreenW >= lipgloss.Width(left)+lipgloss.Width(board)+2 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", board))
		} else {
			b.WriteString(left)
			b.WriteString("\n")
			b.WriteString(board)
		}
		b.WriteString("\n")
		if m.submitted != nil {
			b.WriteString(okStyle.Render(fmt.Sprintf("Saved as %s", m.submitted.DisplayName)))
			b.WriteString("\n")
		} else if m.env.Store == nil {
			b.WriteString(helpStyle.Render("Scores are not saved in this session."))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("R: retry  |  Tab: refresh  |  Esc/B: back  |  Q: quit"))
	}
	return b.String()
}

// viewBoard renders the ranking with the player's own entry highlighted.
func (m Model) viewBoard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TOP " + fmt.Sprint(m.env.limit())))
	b.WriteString("\n")
	switch {
	case m.env.Store == nil:
		b.WriteString(helpStyle.Render("No leaderboard configured"))
		return b.String()
	case m.boardErr != nil && len(m.board) == 0:
		b.WriteString(errorStyle.Render(submitErrorText(m.boardErr)))
		return b.String()
	case m.boardLoading && len(m.board) == 0:
		b.WriteString(helpStyle.Render("Loading..."))
		return b.String()
	case len(m.board) == 0:
		b.WriteString(helpStyle.Render("No scores yet"))
		return b.String()
	}

	ownID := ""
	if m.submitted != nil {
		ownID = m.submitted.ID
	}
	for i, e := range m.board {
		line := fmt.Sprintf("%2d. %-*s %7d  %3d%%", i+1, leaderboard.MaxNameRunes, e.DisplayName, e.Score, e.Accuracy)
		if e.Message != "" {
			line += "  " + truncateRunes(e.Message, 24)
		}
		if e.ID == ownID {
			line = okStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.boardStale {
		b.WriteString(noticeStyle.Render("leaderboard unreachable, showing cached scores"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// submitErrorText shortens leaderboard errors for the status line.
func submitErrorText(err error) string {
	switch {
	case errors.Is(err, leaderboard.ErrUnavailable):
		return "Leaderboard unavailable: " + err.Error()
	case errors.Is(err, leaderboard.ErrInvalidEntry):
		return "Rejected: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// IsGoingBack returns true if the player asked to return to the menu.
func (m Model) IsGoingBack() bool {
	return m.backToMenu
}

// IsQuitting returns true if the player asked to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run plays one song in its own Bubble Tea program.
// Returns true if the player wants to go back to the menu.
func Run(env Env, songID string, preset config.DifficultyPreset, cfg core.RuntimeConfig) (goBack bool, err error) {
	game, notice, err := env.NewGame(songID, preset)
	if err != nil {
		return false, err
	}
	model := NewModel(env, game, cfg)
	model.notice = notice

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	game.Close()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
