package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/fingerspell/internal/confirm"
)

// LetterEvent is a confirmed-letter record persisted for diagnostics.
type LetterEvent struct {
	ID          int64     `json:"id"`
	Letter      string    `json:"letter"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// EventRepository records and queries confirmed-letter history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record persists one confirmed-letter event.
func (r *EventRepository) Record(e confirm.Event) error {
	_, err := r.db.Exec(
		`INSERT INTO letter_events (letter, confirmed_at) VALUES (?, ?)`,
		e.Letter, e.ConfirmedAt,
	)
	return err
}

// Recent returns the most recent events, newest first, up to limit.
func (r *EventRepository) Recent(limit int) ([]LetterEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, letter, confirmed_at FROM letter_events
		 ORDER BY confirmed_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []LetterEvent
	for rows.Next() {
		var e LetterEvent
		if err := rows.Scan(&e.ID, &e.Letter, &e.ConfirmedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
