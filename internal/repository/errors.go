// Package repository defines the data access layer and the sentinel error
// values shared across repositories. Handlers compare against these
// sentinels to pick HTTP status codes: not-found errors map to 404,
// conflicts to 409, ownership violations to 403 and workflow violations
// to 400.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an
// existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when registration collides with an existing
// email address.
var ErrEmailExists = errors.New("email already exists")

// ErrItemNotFound is returned when an item lookup by id matches nothing.
var ErrItemNotFound = errors.New("item not found")

// ErrRequestNotFound is returned when a request lookup by id matches
// nothing.
var ErrRequestNotFound = errors.New("request not found")

// ErrUserNotFound is returned when a user lookup by id matches nothing.
var ErrUserNotFound = errors.New("user not found")

// ErrNotPending is returned when a status transition is attempted on a
// request that already left the pending state. Accepted and rejected are
// terminal.
var ErrNotPending = errors.New("request is not pending")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")
