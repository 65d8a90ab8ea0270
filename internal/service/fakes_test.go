package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sarops/missionline/internal/model"
	"github.com/sarops/missionline/internal/repository"
	"github.com/sarops/missionline/internal/store"
)

// fakeStore is an in-memory store.Store.  Each transaction works on a copy
// of the maps and writes back only on Commit, so rollback semantics match
// the real thing.  Setting failOn makes the named Tx method return an
// error, simulating a store failure mid-transaction.
type fakeStore struct {
	events  map[int64]model.Event
	signIns map[int64]model.SignIn
	calls   map[int64]model.Call
	nextID  int64
	failOn  string

	commits   int
	rollbacks int
	loads     []int64 // event ids, in EventWithDetails call order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:  map[int64]model.Event{},
		signIns: map[int64]model.SignIn{},
		calls:   map[int64]model.Call{},
		nextID:  100,
	}
}

func (f *fakeStore) addEvent(e model.Event)   { f.events[e.ID] = e }
func (f *fakeStore) addSignIn(s model.SignIn) { f.signIns[s.ID] = s }
func (f *fakeStore) addCall(c model.Call)     { f.calls[c.ID] = c }

func (f *fakeStore) Begin(_ context.Context) (store.Tx, error) {
	return &fakeTx{
		parent:  f,
		events:  cloneMap(f.events),
		signIns: cloneMap(f.signIns),
		calls:   cloneMap(f.calls),
	}, nil
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fakeTx struct {
	parent  *fakeStore
	events  map[int64]model.Event
	signIns map[int64]model.SignIn
	calls   map[int64]model.Call
	done    bool
}

func (t *fakeTx) fail(op string) error {
	if t.parent.failOn == op {
		return errors.New("store failure: " + op)
	}
	return nil
}

func (t *fakeTx) Event(_ context.Context, id int64) (*model.Event, error) {
	if err := t.fail("Event"); err != nil {
		return nil, err
	}
	e, ok := t.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	e.SignIns, e.Calls = nil, nil
	return &e, nil
}

func (t *fakeTx) EventWithDetails(ctx context.Context, id int64) (*model.Event, error) {
	t.parent.loads = append(t.parent.loads, id)
	e, err := t.Event(ctx, id)
	if err != nil {
		return nil, err
	}
	e.SignIns, _ = t.SignInsByEvent(ctx, id)
	for _, c := range t.calls {
		if c.EventID == id {
			e.Calls = append(e.Calls, c)
		}
	}
	return e, nil
}

func (t *fakeTx) CreateEvent(_ context.Context, e *model.Event) error {
	if err := t.fail("CreateEvent"); err != nil {
		return err
	}
	t.parent.nextID++
	e.ID = t.parent.nextID
	t.events[e.ID] = *e
	return nil
}

func (t *fakeTx) UpdateEvent(_ context.Context, e *model.Event) error {
	if err := t.fail("UpdateEvent"); err != nil {
		return err
	}
	if _, ok := t.events[e.ID]; !ok {
		return repository.ErrEventNotFound
	}
	stored := *e
	stored.SignIns, stored.Calls = nil, nil
	t.events[e.ID] = stored
	return nil
}

func (t *fakeTx) DeleteEvent(_ context.Context, id int64) error {
	if err := t.fail("DeleteEvent"); err != nil {
		return err
	}
	delete(t.events, id)
	for sid, s := range t.signIns {
		if s.EventID == id {
			delete(t.signIns, sid)
		}
	}
	for cid, c := range t.calls {
		if c.EventID == id {
			delete(t.calls, cid)
		}
	}
	return nil
}

func (t *fakeTx) SignIn(_ context.Context, id int64) (*model.SignIn, error) {
	if err := t.fail("SignIn"); err != nil {
		return nil, err
	}
	s, ok := t.signIns[id]
	if !ok {
		return nil, repository.ErrSignInNotFound
	}
	return &s, nil
}

func (t *fakeTx) SignInsByEvent(_ context.Context, eventID int64) ([]model.SignIn, error) {
	if err := t.fail("SignInsByEvent"); err != nil {
		return nil, err
	}
	out := []model.SignIn{}
	for _, s := range t.signIns {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MemberID != out[j].MemberID {
			return out[i].MemberID < out[j].MemberID
		}
		return out[i].TimeIn.Before(out[j].TimeIn)
	})
	return out, nil
}

func (t *fakeTx) CreateSignIn(_ context.Context, s *model.SignIn) error {
	if err := t.fail("CreateSignIn"); err != nil {
		return err
	}
	t.parent.nextID++
	s.ID = t.parent.nextID
	t.signIns[s.ID] = *s
	return nil
}

func (t *fakeTx) UpdateSignIn(_ context.Context, s *model.SignIn) error {
	if err := t.fail("UpdateSignIn"); err != nil {
		return err
	}
	if _, ok := t.signIns[s.ID]; !ok {
		return repository.ErrSignInNotFound
	}
	t.signIns[s.ID] = *s
	return nil
}

func (t *fakeTx) DeleteSignIns(_ context.Context, ids []int64) error {
	if err := t.fail("DeleteSignIns"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(t.signIns, id)
	}
	return nil
}

func (t *fakeTx) ReassignCalls(_ context.Context, fromEventID, intoEventID int64) error {
	if err := t.fail("ReassignCalls"); err != nil {
		return err
	}
	for id, c := range t.calls {
		if c.EventID == fromEventID {
			c.EventID = intoEventID
			t.calls[id] = c
		}
	}
	return nil
}

func (t *fakeTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.parent.commits++
	t.parent.events = t.events
	t.parent.signIns = t.signIns
	t.parent.calls = t.calls
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.parent.rollbacks++
	return nil
}

// recordingNotifier captures notifications in order.
type recordingNotifier struct {
	sent []string
}

func (r *recordingNotifier) EventUpdated(_ context.Context, entry model.EventEntry) error {
	r.sent = append(r.sent, fmt.Sprintf("updated:%d", entry.ID))
	return nil
}

func (r *recordingNotifier) EventRemoved(_ context.Context, eventID int64) error {
	r.sent = append(r.sent, fmt.Sprintf("removed:%d", eventID))
	return nil
}

func (r *recordingNotifier) RosterUpdated(_ context.Context, s model.SignIn) error {
	r.sent = append(r.sent, fmt.Sprintf("roster:%d", s.ID))
	return nil
}
