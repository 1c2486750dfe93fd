package leaderboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tidwall/gjson"
)

// fakeFirestore is a minimal in-memory document service. It returns query
// results in insertion order so ranking is done by the client.
type fakeFirestore struct {
	mu      sync.Mutex
	docs    []string // raw document JSON
	queries []string
	fail    bool
	key     string
}

func (f *fakeFirestore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":{"message":"backend down"}}`)
		return
	}
	if r.URL.Query().Get("key") != f.key {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	body, _ := io.ReadAll(r.Body)

	switch {
	case strings.HasSuffix(r.URL.Path, "/documents/scores"):
		id := r.URL.Query().Get("documentId")
		name := "projects/p/databases/(default)/documents/scores/" + id
		doc := `{"name":"` + name + `","fields":` + gjson.GetBytes(body, "fields").Raw + `}`
		f.docs = append(f.docs, doc)
		io.WriteString(w, doc)

	case strings.HasSuffix(r.URL.Path, "/documents:runQuery"):
		f.queries = append(f.queries, string(body))
		board := gjson.GetBytes(body, "structuredQuery.where.fieldFilter.value.stringValue").Str
		rows := []string{`{"readTime":"2026-03-01T12:00:00Z"}`}
		for _, d := range f.docs {
			if gjson.Get(d, "fields.board.stringValue").Str == board {
				rows = append(rows, `{"document":`+d+`}`)
			}
		}
		io.WriteString(w, "["+strings.Join(rows, ",")+"]")

	default:
		http.NotFound(w, r)
	}
}

func newRemote(t *testing.T) (*RemoteStore, *fakeFirestore) {
	t.Helper()
	fake := &fakeFirestore{key: "test-key"}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewRemoteStore(srv.URL+"/v1/projects/p/databases/(default)/documents/scores?key=test-key", srv.Client())
	if err != nil {
		t.Fatalf("NewRemoteStore() error = %v", err)
	}
	return s, fake
}

func TestRemoteStoreRoundTrip(t *testing.T) {
	s, _ := newRemote(t)
	checkRoundTrip(t, s)
}

func TestRemoteStoreQueryShape(t *testing.T) {
	s, fake := newRemote(t)
	if _, err := s.FetchRanked(context.Background(), "hyperlane", 5); err != nil {
		t.Fatal(err)
	}

	q := fake.queries[0]
	checks := map[string]string{
		"structuredQuery.from.0.collectionId":                 "scores",
		"structuredQuery.where.fieldFilter.value.stringValue": "hyperlane",
		"structuredQuery.orderBy.0.direction":                 "DESCENDING",
		"structuredQuery.orderBy.1.field.fieldPath":           "submittedAt",
		"structuredQuery.limit":                               "5",
	}
	for path, want := range checks {
		if got := gjson.Get(q, path).String(); got != want {
			t.Errorf("%s = %q, expected %q", path, got, want)
		}
	}
}

func TestRemoteStoreSubmitFields(t *testing.T) {
	s, fake := newRemote(t)
	stored, err := s.Submit(context.Background(), Entry{Board: "b", Score: 1200, Accuracy: 97, Message: "gg"})
	if err != nil {
		t.Fatal(err)
	}
	if stored.DisplayName != Placeholder {
		t.Errorf("DisplayName = %q, expected placeholder", stored.DisplayName)
	}

	doc := fake.docs[0]
	if got := gjson.Get(doc, "fields.score.integerValue").Str; got != "1200" {
		t.Errorf("score field = %q, expected \"1200\"", got)
	}
	if got := gjson.Get(doc, "fields.message.stringValue").Str; got != "gg" {
		t.Errorf("message field = %q, expected gg", got)
	}
	if !strings.HasSuffix(gjson.Get(doc, "name").Str, "/"+stored.ID) {
		t.Errorf("document name %q does not end in entry ID %q", gjson.Get(doc, "name").Str, stored.ID)
	}
}

func TestRemoteStoreUnavailable(t *testing.T) {
	s, fake := newRemote(t)
	fake.fail = true

	_, err := s.Submit(context.Background(), Entry{Board: "b", Score: 1})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Submit() error = %v, expected ErrUnavailable", err)
	}
	if err != nil && !strings.Contains(err.Error(), "backend down") {
		t.Errorf("Submit() error = %v, expected remote message", err)
	}

	_, err = s.FetchRanked(context.Background(), "b", 5)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("FetchRanked() error = %v, expected ErrUnavailable", err)
	}
}

func TestNewRemoteStoreRejectsBadURL(t *testing.T) {
	for _, raw := range []string{
		"ftp://example.com/documents/scores",
		"https://example.com/v1/projects/p",
		"https://example.com/documents/",
		"https://example.com/documents/a/b",
	} {
		if _, err := NewRemoteStore(raw, nil); err == nil {
			t.Errorf("NewRemoteStore(%q) should fail", raw)
		}
	}
}
