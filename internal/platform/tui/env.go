package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/core"
	"github.com/vovakirdan/arrowbeat/internal/games/rhythm"
	"github.com/vovakirdan/arrowbeat/internal/leaderboard"
	"github.com/vovakirdan/arrowbeat/internal/registry"
)

// Env carries what every screen needs: configuration, the leaderboard and
// the local player's defaults. A nil Store disables score submission.
type Env struct {
	Rhythm  config.RhythmConfig
	Runtime core.RuntimeConfig
	Store   leaderboard.Store

	// PlayerName prefills the name field after a song.
	PlayerName string

	// Music enables audio playback for songs that name a music file.
	// SSH sessions leave it off since audio would play on the server.
	Music bool
}

func (e Env) limit() int {
	if e.Rhythm.Leaderboard.Limit > 0 {
		return e.Rhythm.Leaderboard.Limit
	}
	return 10
}

func (e Env) timeout() time.Duration {
	return e.Rhythm.Leaderboard.Timeout
}

// NewGame builds a game for a registered song. The returned notice is a
// non-fatal message to show the player, such as missing music.
func (e Env) NewGame(songID string, preset config.DifficultyPreset) (*rhythm.Game, string, error) {
	song, err := registry.Get(songID)
	if err != nil {
		return nil, "", err
	}
	g, err := rhythm.New(e.Rhythm, song, preset)
	if err != nil {
		return nil, "", err
	}
	notice := ""
	if e.Music && song.Music != "" {
		if err := g.AttachMusic(song.Music); err != nil {
			notice = "music unavailable: " + err.Error()
		}
	}
	return g, notice, nil
}

// submitDoneMsg reports a finished submission for the run that started it.
type submitDoneMsg struct {
	run    int
	result leaderboard.SubmitResult
}

// boardLoadedMsg carries a fetched ranking. Stale is set when a caching
// store served its last good list because the backend failed.
type boardLoadedMsg struct {
	leaderboard.FetchResult
	Stale bool
}

// staler is implemented by stores that can serve cached lists.
type staler interface {
	Stale(board string) bool
}

// submitCmd stores an entry off the UI goroutine.
func submitCmd(env Env, run int, e leaderboard.Entry) tea.Cmd {
	store := env.Store
	timeout := env.timeout()
	return func() tea.Msg {
		res := <-leaderboard.SubmitAsync(context.Background(), store, e, timeout)
		return submitDoneMsg{run: run, result: res}
	}
}

// fetchBoardCmd loads a ranking off the UI goroutine.
func fetchBoardCmd(env Env, board string) tea.Cmd {
	if env.Store == nil {
		return nil
	}
	store := env.Store
	limit := env.limit()
	timeout := env.timeout()
	return func() tea.Msg {
		res := <-leaderboard.FetchAsync(context.Background(), store, board, limit, timeout)
		msg := boardLoadedMsg{FetchResult: res}
		if c, ok := store.(staler); ok && res.Err == nil {
			msg.Stale = c.Stale(board)
		}
		return msg
	}
}
