package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sarops/missionline/internal/model"
)

// EventRepo provides read and write access to the events table.  Reads used
// by list/get handlers run against the pool directly; every write that is
// part of a lifecycle transition or merge goes through the ...Tx variants so
// the caller controls the transaction boundary.  All timestamps are stored
// in UTC.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying pool so callers can begin transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, name, opened, closed, outgoing_text, outgoing_url, directions_text, directions_url`

// Pool reads use the plain query; transactional reads lock the row so
// concurrent writers serialize instead of overwriting each other from a
// stale snapshot.
const (
	eventByIDQuery     = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	eventByIDLockQuery = eventByIDQuery + ` FOR UPDATE`
)

// scanEvent reads one event row.  The metadata columns are nullable in the
// schema and collapse to empty strings in the model.
func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var closed sql.NullTime
	var outText, outUrl, dirText, dirUrl sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &e.Opened, &closed, &outText, &outUrl, &dirText, &dirUrl); err != nil {
		return nil, err
	}
	if closed.Valid {
		t := closed.Time
		e.Closed = &t
	}
	e.OutgoingText = outText.String
	e.OutgoingUrl = outUrl.String
	e.DirectionsText = dirText.String
	e.DirectionsUrl = dirUrl.String
	return &e, nil
}

// GetByID returns a single event without its sign-in and call collections.
// ErrEventNotFound is returned when the id does not resolve.
func (r *EventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, eventByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// ListActive returns events that are open or closed after the given cutoff,
// newest opened first.
func (r *EventRepo) ListActive(ctx context.Context, cutoff time.Time) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
	           WHERE closed IS NULL OR closed > ?
	           ORDER BY opened DESC`
	rows, err := r.db.QueryContext(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByIDTx loads an event inside a transaction and locks its row until
// the transaction ends.  ErrEventNotFound is returned when the id does not
// resolve.
func (r *EventRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Event, error) {
	e, err := scanEvent(tx.QueryRowContext(ctx, eventByIDLockQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// CreateTx inserts a new event and populates the generated ID.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `INSERT INTO events (name, opened, closed, outgoing_text, outgoing_url, directions_text, directions_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, e.Name, e.Opened, nullTime(e.Closed),
		nullString(e.OutgoingText), nullString(e.OutgoingUrl),
		nullString(e.DirectionsText), nullString(e.DirectionsUrl))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// UpdateTx writes every mutable event column.
func (r *EventRepo) UpdateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `UPDATE events
	           SET name = ?, opened = ?, closed = ?, outgoing_text = ?, outgoing_url = ?, directions_text = ?, directions_url = ?
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, e.Name, e.Opened, nullTime(e.Closed),
		nullString(e.OutgoingText), nullString(e.OutgoingUrl),
		nullString(e.DirectionsText), nullString(e.DirectionsUrl), e.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update;
		// confirm existence before reporting not found.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, e.ID).Scan(&one); errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// DeleteTx removes an event together with any sign-ins and calls it still
// owns.  Rows migrated to another event beforehand keep their new owner.
func (r *EventRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM signins WHERE event_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM calls WHERE event_id = ?`, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
