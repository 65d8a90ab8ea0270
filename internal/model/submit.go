package model

// SubmitError describes one problem with a submitted entity.  Validation
// collects every error before returning so a caller sees all problems in a
// single round trip.  Field is empty for errors that concern the entity as
// a whole (for example the close precondition).
type SubmitError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
