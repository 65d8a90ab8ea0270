package repository

import (
	"context"
	"database/sql"

	"github.com/sarops/missionline/internal/model"
)

// CallRepo provides access to the calls table.  Call rows are written by
// the voice integration outside this service; here they are listed per
// event and, during a merge, reassigned to the surviving event without
// touching their content.
type CallRepo struct {
	db *sql.DB
}

// NewCallRepo returns a new CallRepo bound to the given database.
func NewCallRepo(db *sql.DB) *CallRepo { return &CallRepo{db: db} }

const callColumns = `id, event_id, call_sid, number, received_at, recording_url, recording_duration`

func scanCall(row interface{ Scan(...any) error }) (*model.Call, error) {
	var c model.Call
	var recUrl sql.NullString
	var recDur sql.NullInt64
	if err := row.Scan(&c.ID, &c.EventID, &c.CallSid, &c.Number, &c.ReceivedAt, &recUrl, &recDur); err != nil {
		return nil, err
	}
	c.RecordingUrl = recUrl.String
	if recDur.Valid {
		d := int(recDur.Int64)
		c.RecordingDuration = &d
	}
	return &c, nil
}

// ListByEventTx returns the calls owned by an event, oldest first, inside
// an existing transaction.
func (r *CallRepo) ListByEventTx(ctx context.Context, tx *sql.Tx, eventID int64) ([]model.Call, error) {
	const q = `SELECT ` + callColumns + ` FROM calls
	           WHERE event_id = ?
	           ORDER BY received_at`
	rows, err := tx.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	calls := make([]model.Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, *c)
	}
	return calls, rows.Err()
}

// ReassignTx moves every call owned by fromEventID to intoEventID.  Only
// the ownership column changes.
func (r *CallRepo) ReassignTx(ctx context.Context, tx *sql.Tx, fromEventID, intoEventID int64) error {
	const q = `UPDATE calls SET event_id = ? WHERE event_id = ?`
	_, err := tx.ExecContext(ctx, q, intoEventID, fromEventID)
	return err
}
