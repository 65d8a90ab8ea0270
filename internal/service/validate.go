package service

import (
	"strings"
	"time"

	"github.com/sarops/missionline/internal/model"
)

// Events must open and close inside this window, evaluated in the
// organization's local time.  Anything outside is a data-entry mistake.
const (
	minEventYear = 2000
	maxEventYear = 2100
)

// validateEntry checks a submitted event projection and returns every
// problem found rather than stopping at the first one.
func validateEntry(entry model.EventEntry, loc *time.Location) []model.SubmitError {
	var errs []model.SubmitError

	if strings.TrimSpace(entry.Name) == "" {
		errs = append(errs, model.SubmitError{Field: "name", Message: "Required"})
	}

	minDate := time.Date(minEventYear, 1, 1, 0, 0, 0, 0, loc)
	maxDate := time.Date(maxEventYear, 1, 1, 0, 0, 0, 0, loc)

	opened := entry.Opened.In(loc)
	openedValid := !opened.Before(minDate) && !opened.After(maxDate)
	if !openedValid {
		errs = append(errs, model.SubmitError{Field: "opened", Message: "Date invalid or out of range"})
	}

	if entry.Closed != nil {
		closed := entry.Closed.In(loc)
		if closed.Before(minDate) || closed.After(maxDate) {
			errs = append(errs, model.SubmitError{Field: "closed", Message: "Date invalid or out of range"})
		} else if closed.Before(opened) {
			errs = append(errs, model.SubmitError{Field: "closed", Message: "Must be after open time"})
		}
	}
	return errs
}

// validateSignIn checks a submitted sign-in.  Overlap against the rest of
// the event's roster is checked separately because it needs store access.
func validateSignIn(s model.SignIn) []model.SubmitError {
	var errs []model.SubmitError
	if s.MemberID <= 0 {
		errs = append(errs, model.SubmitError{Field: "memberId", Message: "Required"})
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, model.SubmitError{Field: "name", Message: "Required"})
	}
	if s.TimeIn.IsZero() {
		errs = append(errs, model.SubmitError{Field: "timeIn", Message: "Required"})
	}
	if s.TimeOut != nil && s.TimeOut.Before(s.TimeIn) {
		errs = append(errs, model.SubmitError{Field: "timeOut", Message: "Must be after time in"})
	}
	return errs
}
