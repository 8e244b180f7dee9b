package events

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcstraus/portfolio/apps/go-server/assets"
)

var sample = []Event{
	{Date: "2025-05-01T20:00:00", EventName: "Night Owls", Venue: "Johnny Brenda's", EventDetails: "<p>Indie <b>rock</b> double bill</p>", Genre: "Rock", Subgenre: "Indie"},
	{Date: "2025-05-01", EventName: "Sunset Set", Venue: "Union Transfer", EventDetails: "House all night", Genre: "Electronic", AllAges: true},
	{Date: "2025-05-03", EventName: "Brass Attack", Venue: "Ardmore Music Hall", EventDetails: "Funk &amp; soul", Genre: "Jazz"},
	{Date: "2025-05-10", EventName: "Loud Friends", Venue: "Underground Arts", EventDetails: "Punk matinee", Genre: "Rock"},
}

func names(list []Event) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.EventName)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"Night Owls", "Sunset Set", "Brass Attack", "Loud Friends"}},
		{"date prefix", Filter{Date: "2025-05-01"}, []string{"Night Owls", "Sunset Set"}},
		{"genre exact", Filter{Genre: "Rock"}, []string{"Night Owls", "Loud Friends"}},
		{"genre is case sensitive", Filter{Genre: "rock"}, []string{}},
		{"query venue", Filter{Query: "union"}, []string{"Sunset Set"}},
		{"query details ignores markup", Filter{Query: "indie rock"}, []string{"Night Owls"}},
		{"query entity", Filter{Query: "funk & soul"}, []string{"Brass Attack"}},
		{"range inclusive", Filter{From: "2025-05-01", To: "2025-05-03"}, []string{"Night Owls", "Sunset Set", "Brass Attack"}},
		{"combined", Filter{Genre: "Rock", Query: "punk"}, []string{"Loud Friends"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Apply(sample, tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenres(t *testing.T) {
	got := Genres(append(sample, Event{EventName: "No genre"}))
	if diff := cmp.Diff([]string{"Rock", "Electronic", "Jazz"}, got); diff != "" {
		t.Errorf("Genres() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "plain", PlainText("plain"))
	assert.Equal(t, "Indie rock double bill", PlainText("<p>Indie <b>rock</b> double bill</p>"))
	assert.Equal(t, "a b", PlainText("a<br/>b"))
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ddl, err := fs.ReadFile(assets.Migrations(), "001_events.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(ddl))
	require.NoError(t, err)
	return db
}

func TestSQLStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(openTestDB(t))

	got, err := s.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Replace(ctx, sample))
	got, err = s.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunset Set", "Night Owls", "Brass Attack", "Loud Friends"}, names(got), "ordered by date")
	assert.True(t, got[0].AllAges)

	require.NoError(t, s.Replace(ctx, sample[:1]))
	got, err = s.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	if diff := cmp.Diff(sample[0], got[0]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestHostedSource(t *testing.T) {
	var gotKey, gotAuth, gotSelect string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/events", r.URL.Path)
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotSelect = r.URL.Query().Get("select")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"date":"2025-05-01","event_name":"Sunset Set","venue":"Union Transfer","all_ages":true,"genre":"Electronic"}]`))
	}))
	defer srv.Close()

	h, err := NewHostedSource(srv.URL+"/", "anon")
	require.NoError(t, err)
	got, err := h.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "anon", gotKey)
	assert.Equal(t, "Bearer anon", gotAuth)
	assert.Equal(t, "*", gotSelect)
	require.Len(t, got, 1)
	assert.Equal(t, "Sunset Set", got[0].EventName)
	assert.True(t, got[0].AllAges)
}

func TestHostedSourceErrors(t *testing.T) {
	_, err := NewHostedSource("", "")
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"JWT expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	h, err := NewHostedSource(srv.URL, "anon")
	require.NoError(t, err)
	_, err = h.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "401")
}

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) Fetch(ctx context.Context) ([]Event, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return sample, nil
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	c := NewCachedSource(src, time.Hour)
	clk := clockwork.NewFakeClockAt(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	c.clock = clk

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(ctx)
		require.NoError(t, err)
		assert.Len(t, got, len(sample))
	}
	assert.Equal(t, 1, src.calls)

	clk.Advance(time.Hour - time.Second)
	_, err := c.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	clk.Advance(time.Second)
	_, err = c.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "revalidates after the ttl")

	c.Invalidate()
	src.err = errors.New("boom")
	_, err = c.Fetch(ctx)
	assert.Error(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	dst := NewSQLStore(openTestDB(t))

	n, err := Sync(ctx, &countingSource{}, dst)
	require.NoError(t, err)
	assert.Equal(t, len(sample), n)

	got, err := dst.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, got, len(sample))

	_, err = Sync(ctx, &countingSource{err: ErrSourceUnavailable}, dst)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	got, err = dst.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, got, len(sample), "a failed fetch leaves the mirror untouched")
}
