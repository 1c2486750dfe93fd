package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

// blockingStore waits for its context to end.
type blockingStore struct{}

func (blockingStore) Submit(ctx context.Context, _ Entry) (Entry, error) {
	<-ctx.Done()
	return Entry{}, unavailable("submit", ctx.Err())
}

func (blockingStore) FetchRanked(ctx context.Context, _ string, _ int) ([]Entry, error) {
	<-ctx.Done()
	return nil, unavailable("fetch", ctx.Err())
}

func (blockingStore) Close() error { return nil }

func TestSubmitAsyncDelivers(t *testing.T) {
	s := &flakyStore{}
	res := <-SubmitAsync(context.Background(), s, Entry{Board: "b", Score: 5}, time.Second)
	if res.Err != nil {
		t.Fatalf("SubmitAsync() error = %v", res.Err)
	}
	if res.Entry.DisplayName != Placeholder {
		t.Errorf("DisplayName = %q, expected placeholder", res.Entry.DisplayName)
	}

	fetched := <-FetchAsync(context.Background(), s, "b", 10, time.Second)
	if fetched.Err != nil || len(fetched.Entries) != 1 || fetched.Board != "b" {
		t.Errorf("FetchAsync() = %+v", fetched)
	}
}

func TestAsyncTimeout(t *testing.T) {
	select {
	case res := <-SubmitAsync(context.Background(), blockingStore{}, Entry{}, 20*time.Millisecond):
		if !errors.Is(res.Err, context.DeadlineExceeded) {
			t.Errorf("SubmitAsync() error = %v, expected deadline exceeded", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SubmitAsync() did not honor its timeout")
	}

	select {
	case res := <-FetchAsync(context.Background(), blockingStore{}, "b", 1, 20*time.Millisecond):
		if !errors.Is(res.Err, ErrUnavailable) {
			t.Errorf("FetchAsync() error = %v, expected ErrUnavailable", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("FetchAsync() did not honor its timeout")
	}
}
