// Package merge implements the pure reconciliation algorithms used when two
// events are combined: coalescing the two attendance rosters and applying
// field precedence to the event records.  Nothing in this package performs
// I/O; callers apply the returned plan inside their own transaction.
package merge

import (
	"sort"

	"github.com/sarops/missionline/internal/model"
)

// RosterResult is the outcome of merging two sign-in lists.  Merged is the
// final roster, sorted by (member, time-in) and already owned by the
// destination event.  Removed lists the IDs of rows that were absorbed into
// a surviving interval and must be deleted by the caller.
type RosterResult struct {
	Merged  []model.SignIn
	Removed []int64
}

// Rosters combines the sign-in lists of two events into the roster of the
// event identified by intoEventID.  The union of both lists is sorted by
// (member, time-in), the sole tie-break rule, and folded left to right,
// keeping one open interval per member: a candidate that starts at or
// before the current interval's time-out (or while it is still open) is
// coalesced into it and dropped from the output.
//
// Coalescing adopts the candidate's time-out whenever the candidate is
// open-ended, the current interval is open-ended, or the candidate ends
// later.  Miles are summed across all non-nil values; the result is nil
// only when neither side reported miles.
//
// The inputs are not modified.  Touching intervals (time-in equal to the
// prior time-out) merge rather than remaining distinct.
func Rosters(intoEventID int64, from, into []model.SignIn) RosterResult {
	all := make([]model.SignIn, 0, len(from)+len(into))
	all = append(all, from...)
	all = append(all, into...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].MemberID != all[j].MemberID {
			return all[i].MemberID < all[j].MemberID
		}
		return all[i].TimeIn.Before(all[j].TimeIn)
	})

	var result RosterResult
	for _, candidate := range all {
		if n := len(result.Merged); n > 0 {
			current := &result.Merged[n-1]
			if current.MemberID == candidate.MemberID && overlapsCurrent(current, &candidate) {
				if candidate.TimeOut == nil || current.TimeOut == nil || candidate.TimeOut.After(*current.TimeOut) {
					current.TimeOut = candidate.TimeOut
				}
				current.Miles = addMiles(current.Miles, candidate.Miles)
				result.Removed = append(result.Removed, candidate.ID)
				continue
			}
		}
		candidate.EventID = intoEventID
		result.Merged = append(result.Merged, candidate)
	}
	return result
}

// Overlaps reports whether two intervals for the same member conflict.  An
// open time-out extends to infinity; touching boundaries count as overlap.
// Used both by the merge fold and by check-in validation.
func Overlaps(a, b model.SignIn) bool {
	if a.TimeIn.After(b.TimeIn) {
		a, b = b, a
	}
	return a.TimeOut == nil || !b.TimeIn.After(*a.TimeOut)
}

// overlapsCurrent is the fold-internal form: current is known to start at
// or before candidate thanks to the sort order.
func overlapsCurrent(current, candidate *model.SignIn) bool {
	return current.TimeOut == nil || !candidate.TimeIn.After(*current.TimeOut)
}

// addMiles sums the non-nil miles of two coalesced intervals.  Nil means
// "not reported" and survives only when both sides are nil.
func addMiles(a, b *int) *int {
	if a == nil && b == nil {
		return nil
	}
	total := 0
	if a != nil {
		total += *a
	}
	if b != nil {
		total += *b
	}
	return &total
}
