// Package repository implements data access for events, sign-ins and calls
// on top of database/sql.  Sentinel errors defined here let higher layers
// distinguish failure scenarios without string matching: handlers translate
// ErrEventNotFound and ErrSignInNotFound into HTTP 404 responses, while any
// other error is treated as a store failure.
package repository

import "errors"

// ErrEventNotFound is returned when a referenced event identifier does not
// resolve to a row.
var ErrEventNotFound = errors.New("event not found")

// ErrSignInNotFound is returned when a referenced sign-in identifier does
// not resolve to a row.
var ErrSignInNotFound = errors.New("sign-in not found")
