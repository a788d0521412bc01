// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish
// between failure scenarios: ErrForbidden marks an ownership mismatch,
// ErrPlanNotFound a booking against a destination that does not exist.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by a different user, e.g. cancelling someone else's
// reservation. The update never happens; the row is untouched.
var ErrForbidden = errors.New("forbidden")

// ErrPlanNotFound is returned by the booking transaction when the
// referenced travel plan does not exist. The transaction is rolled back
// before this is surfaced.
var ErrPlanNotFound = errors.New("travel plan not found")

// ErrEmailExists is returned when a registration or profile update would
// claim an email address already held by another user.
var ErrEmailExists = errors.New("email already exists")
