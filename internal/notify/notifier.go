// Package notify delivers "something changed" signals to connected
// observers.  Delivery is fire-and-forget: it happens strictly after the
// database transaction has committed, failures are logged and never
// retried, and no caller ever sees a notification error.
package notify

import (
	"context"
	"log"

	"github.com/sarops/missionline/internal/model"
)

// Notifier is the push dependency consumed by the service layer.  The core
// only depends on this interface, never on a concrete transport.
type Notifier interface {
	// EventUpdated announces a new or changed event projection.
	EventUpdated(ctx context.Context, entry model.EventEntry) error
	// EventRemoved announces that an event ceased to exist, as happens to
	// the source of a merge.
	EventRemoved(ctx context.Context, eventID int64) error
	// RosterUpdated announces a created or changed sign-in.
	RosterUpdated(ctx context.Context, signIn model.SignIn) error
}

// LogNotifier writes notifications to the process log instead of a broker.
// It backs tests and deployments without a broker configured.
type LogNotifier struct{}

func (LogNotifier) EventUpdated(_ context.Context, entry model.EventEntry) error {
	log.Printf("notify: event %d updated (%s)", entry.ID, entry.Name)
	return nil
}

func (LogNotifier) EventRemoved(_ context.Context, eventID int64) error {
	log.Printf("notify: event %d removed", eventID)
	return nil
}

func (LogNotifier) RosterUpdated(_ context.Context, signIn model.SignIn) error {
	log.Printf("notify: sign-in %d updated (member %d)", signIn.ID, signIn.MemberID)
	return nil
}
