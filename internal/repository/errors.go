// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// user is not authorized to perform an operation on a resource owned
// by someone else, while ErrLotNotFound signals a lookup miss that
// handlers translate into a 404.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrLotNotFound is returned when a parking lot lookup yields no rows.
var ErrLotNotFound = errors.New("lot not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotificationNotFound is returned when a notification lookup
// yields no rows for the requesting recipient.
var ErrNotificationNotFound = errors.New("notification not found")
