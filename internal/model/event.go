package model

import "time"

// Event represents a tracked field operation (mission, search, training)
// that members respond to.  An event owns the sign-ins recorded against it
// and the phone calls received while it was the active incident.  Events
// open when created and close once every responder has signed out; a merge
// consumes a duplicate event and folds its history into the survivor.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – required display name of the operation.
//  Opened         – when the event was opened (stored UTC).
//  Closed         – when the event was closed; nil while the event is open.
//  OutgoingText   – message played/sent to responders calling in.
//  OutgoingUrl    – link distributed with the outgoing message.
//  DirectionsText – driving directions for the operation base.
//  DirectionsUrl  – map link for the operation base.
//  SignIns        – attendance intervals owned by this event.
//  Calls          – phone call records owned by this event.
type Event struct {
	ID             int64      // events.id
	Name           string     // events.name
	Opened         time.Time  // events.opened
	Closed         *time.Time // events.closed (nullable)
	OutgoingText   string     // events.outgoing_text (nullable)
	OutgoingUrl    string     // events.outgoing_url (nullable)
	DirectionsText string     // events.directions_text (nullable)
	DirectionsUrl  string     // events.directions_url (nullable)
	SignIns        []SignIn   // loaded on demand
	Calls          []Call     // loaded on demand
}

// Entry builds the public projection of the event in the organization's
// local time.  Sign-ins, calls and the outgoing/directions metadata are
// internal and never leave the API boundary.
func (e *Event) Entry(loc *time.Location) EventEntry {
	entry := EventEntry{
		ID:     e.ID,
		Name:   e.Name,
		Opened: e.Opened.In(loc),
	}
	if e.Closed != nil {
		t := e.Closed.In(loc)
		entry.Closed = &t
	}
	return entry
}

// EventEntry is the projection of an event exposed over the API and carried
// in update notifications.
type EventEntry struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Opened time.Time  `json:"opened"`
	Closed *time.Time `json:"closed"`
}
