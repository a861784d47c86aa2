// Package repository defines the data access layer and the error
// types reused across repositories. These sentinel values allow
// higher layers such as handlers to distinguish between different
// failure scenarios without string matching. Booking-specific
// sentinels (insufficient seats, already decided) live in the
// booking package, which this package implements the store for.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a poster that still has seat-holding bookings. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUserNotFound is returned when no user matches the given email
// or id.
var ErrUserNotFound = errors.New("user not found")

// ErrAlreadyVerified is returned when redeeming a verification code
// for an account whose email is already confirmed.
var ErrAlreadyVerified = errors.New("email already verified")

// ErrInvalidCode is returned when a verification or reset code does
// not match the one on record.
var ErrInvalidCode = errors.New("invalid code")

// ErrNoResetRequest is returned when redeeming a reset code for a
// user who never requested one (or whose request was already
// consumed).
var ErrNoResetRequest = errors.New("no password reset request found")

// ErrCodeExpired is returned when a reset code matches but its
// expiry has passed.
var ErrCodeExpired = errors.New("code expired")

// ErrClubNotFound is returned when the referenced club does not
// exist.
var ErrClubNotFound = errors.New("club not found")

// ErrEventNotFound is returned when the referenced event does not
// exist.
var ErrEventNotFound = errors.New("event not found")

// ErrRequestNotFound is returned when the referenced event request
// does not exist.
var ErrRequestNotFound = errors.New("event request not found")

// ErrPostNotFound is returned when the referenced post does not
// exist.
var ErrPostNotFound = errors.New("post not found")
