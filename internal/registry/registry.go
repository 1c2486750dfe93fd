// Package registry provides a global catalog of playable songs.
// Songs are loaded from configuration at startup, allowing the CLI, the menu
// and every SSH session to discover them without hardcoded lists.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/arrowbeat/internal/config"
)

// ErrUnknownSong is returned when a song ID is not in the catalog.
var ErrUnknownSong = errors.New("unknown song")

// SongInfo contains display metadata about a registered song.
type SongInfo struct {
	ID     string
	Title  string
	Artist string
	BPM    float64
}

var (
	songs = make(map[string]config.SongConfig)
	mu    sync.RWMutex
)

// Register adds a song to the catalog.
// Panics if a song with the same ID is already registered.
func Register(song config.SongConfig) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := songs[song.ID]; exists {
		panic(fmt.Sprintf("registry: song %q already registered", song.ID))
	}
	songs[song.ID] = song
}

// Load replaces the catalog with the given songs.
func Load(list []config.SongConfig) error {
	next := make(map[string]config.SongConfig, len(list))
	for _, s := range list {
		if s.ID == "" {
			return fmt.Errorf("registry: song %q has no id", s.Title)
		}
		if _, exists := next[s.ID]; exists {
			return fmt.Errorf("registry: song %q listed twice", s.ID)
		}
		next[s.ID] = s
	}

	mu.Lock()
	songs = next
	mu.Unlock()
	return nil
}

// List returns information about all registered songs, sorted by ID.
func List() []SongInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SongInfo, 0, len(songs))
	for _, s := range songs {
		result = append(result, SongInfo{
			ID:     s.ID,
			Title:  s.Title,
			Artist: s.Artist,
			BPM:    s.BPM,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns the full song configuration by ID.
func Get(id string) (config.SongConfig, error) {
	mu.RLock()
	defer mu.RUnlock()

	s, ok := songs[id]
	if !ok {
		return config.SongConfig{}, fmt.Errorf("registry: %w %q", ErrUnknownSong, id)
	}
	return s, nil
}

// Exists checks if a song with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := songs[id]
	return ok
}

// Reset empties the catalog.
func Reset() {
	mu.Lock()
	songs = make(map[string]config.SongConfig)
	mu.Unlock()
}
