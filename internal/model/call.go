package model

import "time"

// Call is a phone call received on the mission line while its owning event
// was active.  Calls are written by the voice integration, which is outside
// this service; here they are only listed and, during a merge, reassigned
// to the surviving event.  Content is never touched by a merge.
//
// Fields:
//  ID                – primary key identifier.
//  EventID           – owning event.
//  CallSid           – provider identifier of the call.
//  Number            – caller's phone number.
//  ReceivedAt        – when the call came in (stored UTC).
//  RecordingUrl      – URL of the recording, if one was made.
//  RecordingDuration – recording length in seconds, if known.
type Call struct {
	ID                int64     // calls.id
	EventID           int64     // calls.event_id
	CallSid           string    // calls.call_sid
	Number            string    // calls.number
	ReceivedAt        time.Time // calls.received_at
	RecordingUrl      string    // calls.recording_url (nullable)
	RecordingDuration *int      // calls.recording_duration (nullable)
}
