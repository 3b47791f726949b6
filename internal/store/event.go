package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a confirmed gesture event recorded for history.
type Event struct {
	ID      string
	Label   string
	FiredAt time.Time
}

// EventRepository provides access to the gesture event history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert records a confirmed gesture event. A missing ID is filled with a
// fresh UUID.
func (r *EventRepository) Insert(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.FiredAt.IsZero() {
		e.FiredAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, label, fired_at) VALUES (?, ?, ?)`,
		e.ID, e.Label, e.FiredAt,
	)
	return err
}

// ListRecent retrieves the most recent events, newest first.
// A non-positive limit defaults to 50.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, label, fired_at FROM events ORDER BY fired_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Label, &e.FiredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Prune deletes events fired before the given time and returns how many
// rows were removed.
func (r *EventRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE fired_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
