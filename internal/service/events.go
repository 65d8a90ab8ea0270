package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sarops/missionline/internal/merge"
	"github.com/sarops/missionline/internal/model"
	"github.com/sarops/missionline/internal/notify"
	"github.com/sarops/missionline/internal/store"
)

// EventService owns the event lifecycle: create/update with collected
// validation, the close/reopen transitions and the merge of duplicate
// events.  Every mutation runs in a single store transaction; observers
// are notified only after the transaction has committed, and a failed
// notification never surfaces to the caller.
type EventService struct {
	store    store.Store
	notifier notify.Notifier
	loc      *time.Location
}

// NewEventService constructs an EventService.  loc is the organization's
// local time zone used for validation and projections.
func NewEventService(st store.Store, n notify.Notifier, loc *time.Location) *EventService {
	if st == nil || n == nil || loc == nil {
		panic("nil dependency passed to NewEventService")
	}
	return &EventService{store: st, notifier: n, loc: loc}
}

// Save creates (isNew) or updates an event from its public projection.
// All validation problems are returned together as a *ValidationError.
func (s *EventService) Save(ctx context.Context, entry model.EventEntry, isNew bool) (*model.EventEntry, error) {
	if errs := validateEntry(entry, s.loc); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var evt *model.Event
	if isNew {
		evt = &model.Event{Name: entry.Name, Opened: entry.Opened.UTC()}
		if entry.Closed != nil {
			t := entry.Closed.UTC()
			evt.Closed = &t
		}
		if err := tx.CreateEvent(ctx, evt); err != nil {
			return nil, fmt.Errorf("create event: %w", err)
		}
	} else {
		if evt, err = tx.Event(ctx, entry.ID); err != nil {
			return nil, err
		}
		evt.Name = entry.Name
		evt.Opened = entry.Opened.UTC()
		evt.Closed = nil
		if entry.Closed != nil {
			t := entry.Closed.UTC()
			evt.Closed = &t
		}
		if err := tx.UpdateEvent(ctx, evt); err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}

	saved := evt.Entry(s.loc)
	_ = s.notifier.EventUpdated(ctx, saved)
	return &saved, nil
}

// Close transitions an event from Open to Closed.  Precondition: every
// sign-in must be checked out; otherwise a *ValidationError is returned
// and the event is untouched.
func (s *EventService) Close(ctx context.Context, id int64) (*model.EventEntry, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin close: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	evt, err := tx.EventWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, si := range evt.SignIns {
		if si.Open() {
			return nil, &ValidationError{Errors: []model.SubmitError{
				{Message: "All members must be signed out before an event can be closed"},
			}}
		}
	}

	now := time.Now().UTC()
	evt.Closed = &now
	if err := tx.UpdateEvent(ctx, evt); err != nil {
		return nil, fmt.Errorf("close event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit close: %w", err)
	}

	entry := evt.Entry(s.loc)
	_ = s.notifier.EventUpdated(ctx, entry)
	return &entry, nil
}

// Reopen transitions an event from Closed back to Open.  The transition is
// unconditional; reopening an already open event is a no-op that still
// notifies.
func (s *EventService) Reopen(ctx context.Context, id int64) (*model.EventEntry, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reopen: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	evt, err := tx.Event(ctx, id)
	if err != nil {
		return nil, err
	}
	evt.Closed = nil
	if err := tx.UpdateEvent(ctx, evt); err != nil {
		return nil, fmt.Errorf("reopen event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reopen: %w", err)
	}

	entry := evt.Entry(s.loc)
	_ = s.notifier.EventUpdated(ctx, entry)
	return &entry, nil
}

// Merge folds the event fromID into intoID and deletes fromID.  The whole
// reconciliation (call reassignment, roster coalescing, field precedence,
// source deletion) commits atomically; a failure on any step rolls back
// everything and no partially merged state is ever observable.  After a
// successful commit observers receive a removal for the source followed by
// an update carrying the merged projection.
func (s *EventService) Merge(ctx context.Context, fromID, intoID int64) (*model.EventEntry, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin merge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the two event rows in id order so concurrent merges of the
	// same pair cannot deadlock.
	firstID, secondID := fromID, intoID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := tx.EventWithDetails(ctx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := tx.EventWithDetails(ctx, secondID)
	if err != nil {
		return nil, err
	}
	from, into := first, second
	if first.ID != fromID {
		from, into = second, first
	}

	if err := tx.ReassignCalls(ctx, fromID, intoID); err != nil {
		return nil, fmt.Errorf("reassign calls: %w", err)
	}

	roster := merge.Rosters(intoID, from.SignIns, into.SignIns)
	for i := range roster.Merged {
		if err := tx.UpdateSignIn(ctx, &roster.Merged[i]); err != nil {
			return nil, fmt.Errorf("migrate sign-in %d: %w", roster.Merged[i].ID, err)
		}
	}
	if err := tx.DeleteSignIns(ctx, roster.Removed); err != nil {
		return nil, fmt.Errorf("delete absorbed sign-ins: %w", err)
	}

	merge.Fields(from, into)
	into.SignIns = roster.Merged
	if err := tx.UpdateEvent(ctx, into); err != nil {
		return nil, fmt.Errorf("update merged event: %w", err)
	}

	if err := tx.DeleteEvent(ctx, fromID); err != nil {
		return nil, fmt.Errorf("delete source event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit merge: %w", err)
	}

	entry := into.Entry(s.loc)
	// Removal before update, always in that order for one merge.
	_ = s.notifier.EventRemoved(ctx, fromID)
	_ = s.notifier.EventUpdated(ctx, entry)
	return &entry, nil
}
