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

// RosterService maintains sign-ins: check-in, check-out/edit and the
// explicit reassignment of one sign-in to a different event.  It enforces
// the invariant that a member's intervals within one event never overlap.
type RosterService struct {
	store    store.Store
	notifier notify.Notifier
	loc      *time.Location
}

// NewRosterService constructs a RosterService.
func NewRosterService(st store.Store, n notify.Notifier, loc *time.Location) *RosterService {
	if st == nil || n == nil || loc == nil {
		panic("nil dependency passed to NewRosterService")
	}
	return &RosterService{store: st, notifier: n, loc: loc}
}

// Save creates a sign-in (check-in) or updates an existing one (check-out
// or correction).  The owning event must exist and the member's intervals
// within that event must stay disjoint.
func (s *RosterService) Save(ctx context.Context, signIn model.SignIn, isNew bool) (*model.SignIn, error) {
	if errs := validateSignIn(signIn); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin roster save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Event(ctx, signIn.EventID); err != nil {
		return nil, err
	}
	if !isNew {
		if _, err := tx.SignIn(ctx, signIn.ID); err != nil {
			return nil, err
		}
	}
	if err := s.checkOverlap(ctx, tx, signIn, signIn.EventID); err != nil {
		return nil, err
	}

	signIn.TimeIn = signIn.TimeIn.UTC()
	if signIn.TimeOut != nil {
		t := signIn.TimeOut.UTC()
		signIn.TimeOut = &t
	}
	if isNew {
		err = tx.CreateSignIn(ctx, &signIn)
	} else {
		err = tx.UpdateSignIn(ctx, &signIn)
	}
	if err != nil {
		return nil, fmt.Errorf("save sign-in: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit roster save: %w", err)
	}

	_ = s.notifier.RosterUpdated(ctx, signIn)
	return &signIn, nil
}

// Reassign moves one sign-in to another event, subject to the overlap
// invariant on the target roster.
func (s *RosterService) Reassign(ctx context.Context, signInID, toEventID int64) (*model.SignIn, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reassign: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	signIn, err := tx.SignIn(ctx, signInID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Event(ctx, toEventID); err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, tx, *signIn, toEventID); err != nil {
		return nil, err
	}

	signIn.EventID = toEventID
	if err := tx.UpdateSignIn(ctx, signIn); err != nil {
		return nil, fmt.Errorf("reassign sign-in: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reassign: %w", err)
	}

	_ = s.notifier.RosterUpdated(ctx, *signIn)
	return signIn, nil
}

// checkOverlap rejects a sign-in whose interval collides with another of
// the same member's intervals on the given event.
func (s *RosterService) checkOverlap(ctx context.Context, tx store.Tx, signIn model.SignIn, eventID int64) error {
	roster, err := tx.SignInsByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	for _, other := range roster {
		if other.ID == signIn.ID || other.MemberID != signIn.MemberID {
			continue
		}
		if merge.Overlaps(other, signIn) {
			return &ValidationError{Errors: []model.SubmitError{
				{Field: "timeIn", Message: "Overlaps another sign-in for this member"},
			}}
		}
	}
	return nil
}
