package leaderboard

import (
	"context"
	"time"
)

// SubmitResult is delivered by SubmitAsync.
type SubmitResult struct {
	Entry Entry
	Err   error
}

// FetchResult is delivered by FetchAsync.
type FetchResult struct {
	Board   string
	Entries []Entry
	Err     error
}

// SubmitAsync submits e on its own goroutine with a timeout and delivers the
// outcome on the returned channel. The caller is never blocked and nothing is
// retried.
func SubmitAsync(ctx context.Context, s Store, e Entry, timeout time.Duration) <-chan SubmitResult {
	out := make(chan SubmitResult, 1)
	go func() {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		stored, err := s.Submit(ctx, e)
		out <- SubmitResult{Entry: stored, Err: err}
	}()
	return out
}

// FetchAsync fetches a ranked list on its own goroutine with a timeout.
func FetchAsync(ctx context.Context, s Store, board string, limit int, timeout time.Duration) <-chan FetchResult {
	out := make(chan FetchResult, 1)
	go func() {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		entries, err := s.FetchRanked(ctx, board, limit)
		out <- FetchResult{Board: board, Entries: entries, Err: err}
	}()
	return out
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
