package store

import (
	"context"
	"database/sql"

	"github.com/sarops/missionline/internal/model"
	"github.com/sarops/missionline/internal/repository"
)

// SQLStore implements Store on MySQL through the repository layer.
type SQLStore struct {
	db      *sql.DB
	events  *repository.EventRepo
	signIns *repository.SignInRepo
	calls   *repository.CallRepo
}

// NewSQLStore returns a Store backed by the given database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:      db,
		events:  repository.NewEventRepo(db),
		signIns: repository.NewSignInRepo(db),
		calls:   repository.NewCallRepo(db),
	}
}

// Begin opens a database transaction.  The transactional reads behind Tx
// are SELECT ... FOR UPDATE, so the event and sign-in rows a merge or
// lifecycle transition touches stay locked until Commit; a concurrent
// check-in or check-out blocks on those locks instead of being rewritten
// from a stale snapshot.
func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{store: s, tx: tx}, nil
}

type sqlTx struct {
	store *SQLStore
	tx    *sql.Tx
	done  bool
}

func (t *sqlTx) Event(ctx context.Context, id int64) (*model.Event, error) {
	return t.store.events.GetByIDTx(ctx, t.tx, id)
}

func (t *sqlTx) EventWithDetails(ctx context.Context, id int64) (*model.Event, error) {
	e, err := t.store.events.GetByIDTx(ctx, t.tx, id)
	if err != nil {
		return nil, err
	}
	if e.SignIns, err = t.store.signIns.ListByEventTx(ctx, t.tx, id); err != nil {
		return nil, err
	}
	if e.Calls, err = t.store.calls.ListByEventTx(ctx, t.tx, id); err != nil {
		return nil, err
	}
	return e, nil
}

func (t *sqlTx) CreateEvent(ctx context.Context, e *model.Event) error {
	return t.store.events.CreateTx(ctx, t.tx, e)
}

func (t *sqlTx) UpdateEvent(ctx context.Context, e *model.Event) error {
	return t.store.events.UpdateTx(ctx, t.tx, e)
}

func (t *sqlTx) DeleteEvent(ctx context.Context, id int64) error {
	return t.store.events.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) SignIn(ctx context.Context, id int64) (*model.SignIn, error) {
	return t.store.signIns.GetByIDTx(ctx, t.tx, id)
}

func (t *sqlTx) SignInsByEvent(ctx context.Context, eventID int64) ([]model.SignIn, error) {
	return t.store.signIns.ListByEventTx(ctx, t.tx, eventID)
}

func (t *sqlTx) CreateSignIn(ctx context.Context, s *model.SignIn) error {
	return t.store.signIns.CreateTx(ctx, t.tx, s)
}

func (t *sqlTx) UpdateSignIn(ctx context.Context, s *model.SignIn) error {
	return t.store.signIns.UpdateTx(ctx, t.tx, s)
}

func (t *sqlTx) DeleteSignIns(ctx context.Context, ids []int64) error {
	return t.store.signIns.DeleteTx(ctx, t.tx, ids)
}

func (t *sqlTx) ReassignCalls(ctx context.Context, fromEventID, intoEventID int64) error {
	return t.store.calls.ReassignTx(ctx, t.tx, fromEventID, intoEventID)
}

func (t *sqlTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}
