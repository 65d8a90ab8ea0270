// Package store defines the transactional unit of work the service layer
// runs against.  Every lifecycle transition and the whole of a merge happen
// inside one Tx; callers either Commit or the deferred Rollback undoes all
// of it, so partially applied state is never observable.
package store

import (
	"context"

	"github.com/sarops/missionline/internal/model"
)

// Store opens units of work against the backing database.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic read-modify-write session.  Implementations return
// repository.ErrEventNotFound / repository.ErrSignInNotFound for unresolved
// identifiers.  Rollback after Commit is a no-op, which allows callers to
// defer it unconditionally.
type Tx interface {
	// Event loads a bare event row.
	Event(ctx context.Context, id int64) (*model.Event, error)
	// EventWithDetails loads an event together with its sign-in and call
	// collections.
	EventWithDetails(ctx context.Context, id int64) (*model.Event, error)
	CreateEvent(ctx context.Context, e *model.Event) error
	UpdateEvent(ctx context.Context, e *model.Event) error
	// DeleteEvent removes the event and cascades over any sign-ins and
	// calls it still owns.
	DeleteEvent(ctx context.Context, id int64) error

	SignIn(ctx context.Context, id int64) (*model.SignIn, error)
	SignInsByEvent(ctx context.Context, eventID int64) ([]model.SignIn, error)
	CreateSignIn(ctx context.Context, s *model.SignIn) error
	UpdateSignIn(ctx context.Context, s *model.SignIn) error
	DeleteSignIns(ctx context.Context, ids []int64) error

	// ReassignCalls moves call ownership between events without touching
	// call content.
	ReassignCalls(ctx context.Context, fromEventID, intoEventID int64) error

	Commit() error
	Rollback() error
}
