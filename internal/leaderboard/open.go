package leaderboard

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Options tune the stores created by Open.
type Options struct {
	Retain int          // Entries kept per board, 0 keeps all
	Client *http.Client // HTTP client for remote stores
}

// OpenFunc opens a store for the part of a DSN after "scheme:".
type OpenFunc func(path string, opts Options) (Store, error)

var (
	drivers   = make(map[string]OpenFunc)
	driversMu sync.RWMutex
)

// RegisterDriver makes a store available to Open under a DSN scheme.
// Typically called from a storage package's init() function.
// Panics if the scheme is already registered.
func RegisterDriver(scheme string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if _, exists := drivers[scheme]; exists {
		panic(fmt.Sprintf("leaderboard: driver %q already registered", scheme))
	}
	drivers[scheme] = open
}

// Drivers lists the registered schemes.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers)+3)
	for name := range drivers {
		names = append(names, name)
	}
	names = append(names, "file", "http", "https")
	sort.Strings(names)
	return names
}

// Open returns a store for a DSN:
//
//	sqlite:<path>      SQLite database (needs the storage driver)
//	file:<path>        local JSON document
//	http(s)://...      remote document service
//
// A bare path is opened by extension: .json as a file store, anything else
// with the sqlite driver.
func Open(dsn string, opts Options) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("leaderboard: empty dsn")
	}

	switch {
	case strings.HasPrefix(dsn, "http://"), strings.HasPrefix(dsn, "https://"):
		return NewRemoteStore(dsn, opts.Client)
	case strings.HasPrefix(dsn, "file:"):
		return OpenFile(strings.TrimPrefix(dsn, "file:"), opts.Retain)
	}

	scheme, path, ok := strings.Cut(dsn, ":")
	if !ok || len(scheme) == 1 { // no scheme, or a Windows drive letter
		if strings.EqualFold(filepath.Ext(dsn), ".json") {
			return OpenFile(dsn, opts.Retain)
		}
		scheme, path = "sqlite", dsn
	}

	driversMu.RLock()
	open, exists := drivers[scheme]
	driversMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("leaderboard: no driver for scheme %q", scheme)
	}
	return open(path, opts)
}
