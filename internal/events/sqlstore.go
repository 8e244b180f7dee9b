package events

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SQLStore is the local sqlite mirror of the hosted events table.
type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Fetch lists all mirrored events ordered by date.
func (s *SQLStore) Fetch(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, event_name, venue, event_details, ticket_link,
		       all_ages, event_link, image_link, genre, subgenre
		FROM events
		ORDER BY date ASC, event_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Date, &e.EventName, &e.Venue, &e.EventDetails, &e.TicketLink,
			&e.AllAges, &e.EventLink, &e.ImageLink, &e.Genre, &e.Subgenre); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Replace swaps the mirrored rows for list in one transaction.
func (s *SQLStore) Replace(ctx context.Context, list []Event) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events(id, date, event_name, venue, event_details, ticket_link,
		                   all_ages, event_link, image_link, genre, subgenre)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range list {
		if _, err = stmt.ExecContext(ctx, uuid.NewString(), e.Date, e.EventName, e.Venue,
			e.EventDetails, e.TicketLink, e.AllAges, e.EventLink, e.ImageLink, e.Genre, e.Subgenre); err != nil {
			return fmt.Errorf("insert %q: %w", e.Key(), err)
		}
	}
	return tx.Commit()
}
