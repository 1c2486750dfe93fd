// Package storage provides SQLite-based persistence for leaderboards.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/arrowbeat/internal/leaderboard"
)

func init() {
	leaderboard.RegisterDriver("sqlite", func(path string, opts leaderboard.Options) (leaderboard.Store, error) {
		s, err := Open(path)
		if err != nil {
			return nil, err
		}
		s.SetRetain(opts.Retain)
		return s, nil
	})
}

// Store manages the SQLite database connection for leaderboard entries.
type Store struct {
	db     *sql.DB
	retain int
	now    func() time.Time
}

// Ensure Store implements leaderboard.Store
var _ leaderboard.Store = (*Store)(nil)

// BoardStats contains aggregated statistics for one board.
type BoardStats struct {
	Board      string
	Plays      int
	HighScore  int
	AvgScore   float64
	AvgAcc     float64
	BestCombo  int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; SSH sessions share this handle.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id TEXT NOT NULL UNIQUE,
			board TEXT NOT NULL,
			display_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			accuracy INTEGER NOT NULL DEFAULT 0,
			max_combo INTEGER NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL DEFAULT '',
			submitted_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_rank ON entries(board, score DESC, submitted_at ASC, seq ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SetRetain bounds the number of entries kept per board. 0 keeps all.
func (s *Store) SetRetain(n int) {
	if n < 0 {
		n = 0
	}
	s.retain = n
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Submit records a new entry and prunes its board to the retained maximum.
func (s *Store) Submit(ctx context.Context, e leaderboard.Entry) (leaderboard.Entry, error) {
	e, err := leaderboard.Normalize(e, s.now())
	if err != nil {
		return leaderboard.Entry{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return leaderboard.Entry{}, unavailable("cannot begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries
		 (entry_id, board, display_name, score, message, accuracy, max_combo, difficulty, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Board, e.DisplayName, e.Score, e.Message,
		e.Accuracy, e.MaxCombo, e.Difficulty, e.SubmittedAt.UnixNano(),
	)
	if err != nil {
		return leaderboard.Entry{}, unavailable("cannot save entry", err)
	}

	if s.retain > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM entries
			 WHERE board = ? AND seq NOT IN (
				SELECT seq FROM entries
				WHERE board = ?
				ORDER BY score DESC, submitted_at ASC, seq ASC
				LIMIT ?
			 )`,
			e.Board, e.Board, s.retain,
		)
		if err != nil {
			return leaderboard.Entry{}, unavailable("cannot prune board", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return leaderboard.Entry{}, unavailable("cannot commit entry", err)
	}
	return e, nil
}

// FetchRanked retrieves the top entries for the given board.
// Results are ordered by score descending, then submission time, then
// insertion order.
func (s *Store) FetchRanked(ctx context.Context, board string, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, board, display_name, score, message, accuracy, max_combo, difficulty, submitted_at
		 FROM entries
		 WHERE board = ?
		 ORDER BY score DESC, submitted_at ASC, seq ASC
		 LIMIT ?`,
		board, limit,
	)
	if err != nil {
		return nil, unavailable("cannot query entries", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		var submitted int64
		if err := rows.Scan(&e.ID, &e.Board, &e.DisplayName, &e.Score, &e.Message,
			&e.Accuracy, &e.MaxCombo, &e.Difficulty, &submitted); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.SubmittedAt = time.Unix(0, submitted).UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given board.
// Returns 0 if no entries exist.
func (s *Store) HighScore(ctx context.Context, board string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM entries WHERE board = ?",
		board,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearBoard deletes all entries for the given board.
func (s *Store) ClearBoard(ctx context.Context, board string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE board = ?", board)
	if err != nil {
		return fmt.Errorf("storage: cannot clear board: %w", err)
	}
	return nil
}

// BoardStats retrieves aggregated statistics for a specific board.
func (s *Store) BoardStats(ctx context.Context, board string) (*BoardStats, error) {
	stats := &BoardStats{Board: board}

	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(AVG(accuracy), 0), COALESCE(MAX(max_combo), 0), MAX(submitted_at)
		 FROM entries WHERE board = ?`,
		board,
	).Scan(&stats.Plays, &stats.HighScore, &stats.AvgScore, &stats.AvgAcc, &stats.BestCombo, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}
	if last.Valid {
		stats.LastPlayed = time.Unix(0, last.Int64).UTC()
	}

	return stats, nil
}

// AllBoardStats retrieves statistics for every board that has entries.
func (s *Store) AllBoardStats(ctx context.Context) (map[string]*BoardStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT board, COUNT(*), MAX(score), AVG(score), AVG(accuracy), MAX(max_combo), MAX(submitted_at)
		 FROM entries
		 GROUP BY board`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all board stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BoardStats)
	for rows.Next() {
		var b BoardStats
		var last int64
		if err := rows.Scan(&b.Board, &b.Plays, &b.HighScore, &b.AvgScore, &b.AvgAcc, &b.BestCombo, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		b.LastPlayed = time.Unix(0, last).UTC()
		stats[b.Board] = &b
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func unavailable(msg string, err error) error {
	if errors.Is(err, leaderboard.ErrUnavailable) {
		return fmt.Errorf("storage: %s: %w", msg, err)
	}
	return fmt.Errorf("storage: %s: %w: %w", msg, leaderboard.ErrUnavailable, err)
}
