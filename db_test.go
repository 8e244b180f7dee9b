package main

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcstraus/portfolio/apps/go-server/assets"
)

func TestMigrateEmbedded(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrate(db, assets.Migrations()))
	require.NoError(t, migrate(db, assets.Migrations()), "second run is a no-op")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)

	for _, table := range []string{"events", "hero_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestMigrateRollsBackFailedFile(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); NOT SQL;`)},
	}
	err = migrate(db, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_bad.sql")

	var names []string
	rows, err := db.Query(`SELECT name FROM _migrations`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		names = append(names, s)
	}
	assert.Equal(t, []string{"001_ok.sql"}, names)
}

func TestEventsSourceSelection(t *testing.T) {
	t.Setenv("EVENTS_SOURCE", "carrier-pigeon")
	_, err := eventsSource(nil)
	assert.ErrorContains(t, err, "unknown source")

	t.Setenv("EVENTS_SOURCE", "hosted")
	t.Setenv("SUPABASE_URL", "")
	_, err = eventsSource(nil)
	assert.Error(t, err)

	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("EVENTS_TTL", "5m")
	src, err := eventsSource(nil)
	require.NoError(t, err)
	assert.NotNil(t, src)
}
