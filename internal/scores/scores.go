package scores

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

var ErrInvalidResult = errors.New("scores: invalid result")

// MaxElapsed bounds accepted session times; anything longer is not a real run.
const MaxElapsed = time.Hour

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Result is one won hero mini-game session.
type Result struct {
	GameID    string `json:"gameId"`
	PlayerID  string `json:"-"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Validate checks a result before it is stored.
func (r Result) Validate() error {
	switch {
	case strings.TrimSpace(r.GameID) == "",
		strings.TrimSpace(r.PlayerID) == "",
		strings.TrimSpace(r.Title) == "",
		r.ElapsedMs <= 0,
		r.ElapsedMs > MaxElapsed.Milliseconds():
		return ErrInvalidResult
	}
	return nil
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert stores r once per game id. A repeated game id is ignored and
// reported as not inserted.
func (s *Store) Insert(ctx context.Context, r Result) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO hero_results(game_id, player_id, date, title, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.GameID, r.PlayerID, r.Date, r.Title, r.ElapsedMs,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type LBRow struct {
	PlayerID  string `json:"playerId"`
	Title     string `json:"title"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard returns the fastest sessions of date.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, title, elapsed_ms
		 FROM hero_results
		 WHERE date=?
		 ORDER BY elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Title, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
