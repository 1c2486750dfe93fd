package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FileStore keeps every board in one JSON document on disk:
//
//	{"boards": {"<song>": {"ranking": [entry, ...]}}}
//
// Rankings are stored in submission order and ranked on read.
type FileStore struct {
	path   string
	retain int
	now    func() time.Time
	mu     sync.Mutex
}

var _ Store = (*FileStore)(nil)

// OpenFile opens or creates a JSON leaderboard at path.
// retain bounds the entries kept per board; 0 keeps all.
func OpenFile(path string, retain int) (*FileStore, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("leaderboard: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if path == "" {
		return nil, fmt.Errorf("leaderboard: empty file path")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("leaderboard: cannot create directory %s: %w", dir, err)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := writeAtomic(path, []byte("{}\n")); err != nil {
			return nil, fmt.Errorf("leaderboard: cannot create %s: %w", path, err)
		}
	case err != nil:
		return nil, fmt.Errorf("leaderboard: cannot read %s: %w", path, err)
	case len(bytes.TrimSpace(data)) > 0 && !gjson.ValidBytes(data):
		return nil, fmt.Errorf("leaderboard: %s is not valid JSON", path)
	}

	return &FileStore{path: path, retain: retain, now: time.Now}, nil
}

// Path returns the location of the JSON document.
func (s *FileStore) Path() string {
	return s.path
}

// Submit appends the entry to its board and prunes the board to the
// retained maximum.
func (s *FileStore) Submit(ctx context.Context, e Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, unavailable("submit", err)
	}
	e, err := Normalize(e, s.now())
	if err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return Entry{}, unavailable("submit", err)
	}

	path := rankingPath(e.Board)
	data, err = sjson.SetBytes(data, path+".-1", e)
	if err != nil {
		return Entry{}, fmt.Errorf("leaderboard: cannot append entry: %w", err)
	}

	if s.retain > 0 {
		data, err = prune(data, path, s.retain)
		if err != nil {
			return Entry{}, err
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err == nil {
		data = buf.Bytes()
	}
	if err := writeAtomic(s.path, data); err != nil {
		return Entry{}, unavailable("submit", err)
	}
	return e, nil
}

// FetchRanked returns the best entries of a board.
func (s *FileStore) FetchRanked(ctx context.Context, board string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("fetch", err)
	}

	s.mu.Lock()
	data, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, unavailable("fetch", err)
	}

	return Rank(parseRanking(gjson.GetBytes(data, rankingPath(board))), limit), nil
}

// Close is a no-op; every Submit writes through.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	return data, nil
}

// prune keeps the best retain entries of the ranking at path, preserving the
// stored order of the survivors.
func prune(data []byte, path string, retain int) ([]byte, error) {
	res := gjson.GetBytes(data, path)
	entries := parseRanking(res)
	if len(entries) <= retain {
		return data, nil
	}

	keep := make(map[string]bool, retain)
	for _, e := range Rank(append([]Entry(nil), entries...), retain) {
		keep[e.ID] = true
	}

	raws := make([]string, 0, retain)
	res.ForEach(func(_, v gjson.Result) bool {
		if keep[v.Get("id").Str] {
			raws = append(raws, v.Raw)
		}
		return true
	})

	out, err := sjson.SetRawBytes(data, path, []byte("["+strings.Join(raws, ",")+"]"))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot prune ranking: %w", err)
	}
	return out, nil
}

func parseRanking(res gjson.Result) []Entry {
	if !res.Exists() || !res.IsArray() {
		return nil
	}
	out := make([]Entry, 0, int(res.Get("#").Int()))
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, Entry{
			ID:          v.Get("id").Str,
			Board:       v.Get("board").Str,
			DisplayName: v.Get("name").Str,
			Score:       int(v.Get("score").Int()),
			Message:     v.Get("message").Str,
			Accuracy:    int(v.Get("accuracy").Int()),
			MaxCombo:    int(v.Get("max_combo").Int()),
			Difficulty:  v.Get("difficulty").Str,
			SubmittedAt: v.Get("submitted_at").Time(),
		})
		return true
	})
	return out
}

// rankingPath builds the gjson/sjson path of a board's ranking, escaping
// characters that have meaning in path syntax.
func rankingPath(board string) string {
	var b strings.Builder
	b.WriteString("boards.")
	for _, r := range board {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	b.WriteString(".ranking")
	return b.String()
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".leaderboard-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
