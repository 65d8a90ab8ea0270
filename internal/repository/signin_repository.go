package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sarops/missionline/internal/model"
)

// SignInRepo provides access to the signins table.  Sign-ins are created at
// check-in, updated at check-out and rewritten wholesale during a merge,
// which is why the write path is transaction-scoped throughout.
type SignInRepo struct {
	db *sql.DB
}

// NewSignInRepo returns a new SignInRepo bound to the given database.
func NewSignInRepo(db *sql.DB) *SignInRepo { return &SignInRepo{db: db} }

const signInColumns = `id, event_id, member_id, name, time_in, time_out, miles`

// Pool reads use the plain queries; transactional reads lock the rows they
// return so a merge cannot rewrite a sign-in a concurrent check-out is
// updating from.
const (
	signInByIDQuery        = `SELECT ` + signInColumns + ` FROM signins WHERE id = ?`
	signInByIDLockQuery    = signInByIDQuery + ` FOR UPDATE`
	rosterByEventQuery     = `SELECT ` + signInColumns + ` FROM signins WHERE event_id = ? ORDER BY member_id, time_in`
	rosterByEventLockQuery = rosterByEventQuery + ` FOR UPDATE`
)

func scanSignIn(row interface{ Scan(...any) error }) (*model.SignIn, error) {
	var s model.SignIn
	var timeOut sql.NullTime
	var miles sql.NullInt64
	if err := row.Scan(&s.ID, &s.EventID, &s.MemberID, &s.Name, &s.TimeIn, &timeOut, &miles); err != nil {
		return nil, err
	}
	if timeOut.Valid {
		t := timeOut.Time
		s.TimeOut = &t
	}
	if miles.Valid {
		m := int(miles.Int64)
		s.Miles = &m
	}
	return &s, nil
}

// GetByID returns one sign-in or ErrSignInNotFound.
func (r *SignInRepo) GetByID(ctx context.Context, id int64) (*model.SignIn, error) {
	s, err := scanSignIn(r.db.QueryRowContext(ctx, signInByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSignInNotFound
	}
	return s, err
}

// ListByEvent returns the roster of one event ordered by (member, time-in),
// the order the merge algorithm expects.
func (r *SignInRepo) ListByEvent(ctx context.Context, eventID int64) ([]model.SignIn, error) {
	return r.list(ctx, rosterByEventQuery, eventID)
}

// ListActive returns the sign-ins of events that are open or closed after
// the cutoff, newest check-in first.  This backs the roster screen.
func (r *SignInRepo) ListActive(ctx context.Context, cutoff time.Time) ([]model.SignIn, error) {
	const q = `SELECT s.id, s.event_id, s.member_id, s.name, s.time_in, s.time_out, s.miles
	           FROM signins s
	           JOIN events e ON e.id = s.event_id
	           WHERE e.closed IS NULL OR e.closed > ?
	           ORDER BY s.time_in DESC`
	return r.list(ctx, q, cutoff)
}

func (r *SignInRepo) list(ctx context.Context, query string, args ...any) ([]model.SignIn, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	signIns := make([]model.SignIn, 0)
	for rows.Next() {
		s, err := scanSignIn(rows)
		if err != nil {
			return nil, err
		}
		signIns = append(signIns, *s)
	}
	return signIns, rows.Err()
}

// GetByIDTx is GetByID inside an existing transaction, locking the row
// until the transaction ends.
func (r *SignInRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.SignIn, error) {
	s, err := scanSignIn(tx.QueryRowContext(ctx, signInByIDLockQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSignInNotFound
	}
	return s, err
}

// ListByEventTx is ListByEvent inside an existing transaction, locking the
// returned rows until the transaction ends.
func (r *SignInRepo) ListByEventTx(ctx context.Context, tx *sql.Tx, eventID int64) ([]model.SignIn, error) {
	rows, err := tx.QueryContext(ctx, rosterByEventLockQuery, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	signIns := make([]model.SignIn, 0)
	for rows.Next() {
		s, err := scanSignIn(rows)
		if err != nil {
			return nil, err
		}
		signIns = append(signIns, *s)
	}
	return signIns, rows.Err()
}

// CreateTx inserts a sign-in and populates the generated ID.
func (r *SignInRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.SignIn) error {
	const q = `INSERT INTO signins (event_id, member_id, name, time_in, time_out, miles)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.EventID, s.MemberID, s.Name, s.TimeIn,
		nullTime(s.TimeOut), nullInt(s.Miles))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// UpdateTx rewrites every mutable sign-in column, including the owning
// event, which is how merge and reassignment migrate rows.
func (r *SignInRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s *model.SignIn) error {
	const q = `UPDATE signins
	           SET event_id = ?, member_id = ?, name = ?, time_in = ?, time_out = ?, miles = ?
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, s.EventID, s.MemberID, s.Name, s.TimeIn,
		nullTime(s.TimeOut), nullInt(s.Miles), s.ID)
	return err
}

// DeleteTx removes the sign-ins absorbed during a merge.  An empty id list
// is a no-op.
func (r *SignInRepo) DeleteTx(ctx context.Context, tx *sql.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `DELETE FROM signins WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
