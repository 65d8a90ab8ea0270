package model

import "time"

// SignIn records one member's attendance interval within an event.  A
// sign-in is created when the member checks in, gains a TimeOut (and
// optionally Miles) when they check out, and only ever changes its owning
// event as the result of a merge or an explicit reassignment.
//
// Within a single event no two sign-ins for the same member may overlap;
// an open TimeOut extends to infinity for the purpose of that check.
//
// Fields:
//  ID       – primary key identifier.
//  EventID  – owning event.
//  MemberID – identifier of the responding member.
//  Name     – member display name captured at check-in.
//  TimeIn   – when the member checked in (stored UTC).
//  TimeOut  – when the member checked out; nil while still checked in.
//  Miles    – round-trip miles reported at check-out, if any.
type SignIn struct {
	ID       int64      // signins.id
	EventID  int64      // signins.event_id
	MemberID int64      // signins.member_id
	Name     string     // signins.name
	TimeIn   time.Time  // signins.time_in
	TimeOut  *time.Time // signins.time_out (nullable)
	Miles    *int       // signins.miles (nullable)
}

// Open reports whether the member is still checked in.
func (s *SignIn) Open() bool { return s.TimeOut == nil }
