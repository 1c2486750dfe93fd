package leaderboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RemoteStore talks to a Firestore-compatible REST document service. The DSN
// is the collection URL:
//
//	https://firestore.googleapis.com/v1/projects/<p>/databases/(default)/documents/<collection>?key=<api key>
//
// Entries are documents in that collection; ranked lists come from a
// structured query ordered by score and submission time.
type RemoteStore struct {
	documentsURL string // .../documents
	collection   string
	apiKey       string
	client       *http.Client
	now          func() time.Time
}

var _ Store = (*RemoteStore)(nil)

// NewRemoteStore parses a collection URL. A nil client uses a client with a
// ten second timeout.
func NewRemoteStore(rawURL string, client *http.Client) (*RemoteStore, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: bad remote url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("leaderboard: remote url must be http(s), got %q", u.Scheme)
	}

	docs, collection, ok := strings.Cut(u.Path, "/documents/")
	collection = strings.Trim(collection, "/")
	if !ok || collection == "" || strings.Contains(collection, "/") {
		return nil, fmt.Errorf("leaderboard: remote url must end in /documents/<collection>")
	}

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	base := *u
	base.Path = docs + "/documents"
	base.RawPath = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &RemoteStore{
		documentsURL: base.String(),
		collection:   collection,
		apiKey:       u.Query().Get("key"),
		client:       client,
		now:          time.Now,
	}, nil
}

// Submit creates a document for the entry.
func (s *RemoteStore) Submit(ctx context.Context, e Entry) (Entry, error) {
	e, err := Normalize(e, s.now())
	if err != nil {
		return Entry{}, err
	}

	body, err := encodeDocument(e)
	if err != nil {
		return Entry{}, fmt.Errorf("leaderboard: cannot encode entry: %w", err)
	}

	endpoint := s.endpoint(s.documentsURL+"/"+url.PathEscape(s.collection), url.Values{"documentId": {e.ID}})
	resp, err := s.post(ctx, endpoint, body)
	if err != nil {
		return Entry{}, unavailable("submit", err)
	}

	if name := gjson.GetBytes(resp, "name").Str; name != "" {
		e.ID = path.Base(name)
	}
	return e, nil
}

// FetchRanked runs a structured query over the board's documents.
func (s *RemoteStore) FetchRanked(ctx context.Context, board string, limit int) ([]Entry, error) {
	query, err := buildQuery(s.collection, board, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot build query: %w", err)
	}

	resp, err := s.post(ctx, s.endpoint(s.documentsURL+":runQuery", nil), query)
	if err != nil {
		return nil, unavailable("fetch", err)
	}

	var entries []Entry
	gjson.ParseBytes(resp).ForEach(func(_, row gjson.Result) bool {
		doc := row.Get("document")
		if !doc.Exists() {
			return true // progress rows carry no document
		}
		entries = append(entries, decodeDocument(doc))
		return true
	})

	// The service orders by score and time; re-rank locally so ties and
	// limits match the other stores.
	return Rank(entries, limit), nil
}

// Close releases idle connections.
func (s *RemoteStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *RemoteStore) endpoint(base string, q url.Values) string {
	if s.apiKey != "" {
		if q == nil {
			q = url.Values{}
		}
		q.Set("key", s.apiKey)
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

func (s *RemoteStore) post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		msg := gjson.GetBytes(data, "error.message").Str
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("remote returned %d: %s", resp.StatusCode, msg)
	}
	return data, nil
}

// encodeDocument renders an entry as typed document fields.
func encodeDocument(e Entry) ([]byte, error) {
	doc := []byte(`{"fields":{}}`)
	set := func(field, kind string, v any) error {
		var err error
		doc, err = sjson.SetBytes(doc, "fields."+field+"."+kind, v)
		return err
	}

	for _, f := range []struct {
		field, kind string
		value       any
	}{
		{"board", "stringValue", e.Board},
		{"name", "stringValue", e.DisplayName},
		{"score", "integerValue", strconv.Itoa(e.Score)},
		{"message", "stringValue", e.Message},
		{"accuracy", "integerValue", strconv.Itoa(e.Accuracy)},
		{"maxCombo", "integerValue", strconv.Itoa(e.MaxCombo)},
		{"difficulty", "stringValue", e.Difficulty},
		{"submittedAt", "timestampValue", e.SubmittedAt.Format(time.RFC3339Nano)},
	} {
		if err := set(f.field, f.kind, f.value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func decodeDocument(doc gjson.Result) Entry {
	fields := doc.Get("fields")
	return Entry{
		ID:          path.Base(doc.Get("name").Str),
		Board:       fields.Get("board.stringValue").Str,
		DisplayName: fields.Get("name.stringValue").Str,
		Score:       int(fields.Get("score.integerValue").Int()),
		Message:     fields.Get("message.stringValue").Str,
		Accuracy:    int(fields.Get("accuracy.integerValue").Int()),
		MaxCombo:    int(fields.Get("maxCombo.integerValue").Int()),
		Difficulty:  fields.Get("difficulty.stringValue").Str,
		SubmittedAt: fields.Get("submittedAt.timestampValue").Time(),
	}
}

func buildQuery(collection, board string, limit int) ([]byte, error) {
	q := []byte(`{}`)
	var err error
	for _, step := range []struct {
		path  string
		value any
	}{
		{"structuredQuery.from.0.collectionId", collection},
		{"structuredQuery.where.fieldFilter.field.fieldPath", "board"},
		{"structuredQuery.where.fieldFilter.op", "EQUAL"},
		{"structuredQuery.where.fieldFilter.value.stringValue", board},
		{"structuredQuery.orderBy.0.field.fieldPath", "score"},
		{"structuredQuery.orderBy.0.direction", "DESCENDING"},
		{"structuredQuery.orderBy.1.field.fieldPath", "submittedAt"},
		{"structuredQuery.orderBy.1.direction", "ASCENDING"},
	} {
		if q, err = sjson.SetBytes(q, step.path, step.value); err != nil {
			return nil, err
		}
	}
	if limit > 0 {
		if q, err = sjson.SetBytes(q, "structuredQuery.limit", limit); err != nil {
			return nil, err
		}
	}
	return q, nil
}
