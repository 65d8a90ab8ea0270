// Package service holds the business rules around events and their
// rosters: create/update validation, the close/reopen lifecycle, the
// event-merge reconciliation and sign-in bookkeeping.  Everything that
// writes runs inside one store.Tx, so an error on any step leaves no trace.
package service

import (
	"strings"

	"github.com/sarops/missionline/internal/model"
)

// ValidationError carries the collected problems of one request.  Both
// field validation and failed preconditions (closing an event with members
// still signed in) surface through this type; handlers render the list as
// a 400 response.
type ValidationError struct {
	Errors []model.SubmitError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		if se.Field != "" {
			msgs[i] = se.Field + ": " + se.Message
			continue
		}
		msgs[i] = se.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
