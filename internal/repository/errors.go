// Package repository defines sentinel errors that are reused across
// multiple repositories. These values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// each one to a stable HTTP status and message.
package repository

import "errors"

// ErrClassNotFound is returned when a booking references a class
// identifier that does not exist. Handlers translate this into an
// HTTP 404 response, distinct from a full class.
var ErrClassNotFound = errors.New("class not found")

// ErrNoSlotsAvailable is returned when a class exists but has no
// remaining capacity. The reservation transaction leaves no state
// behind when this is returned. Handlers translate it into HTTP 400.
var ErrNoSlotsAvailable = errors.New("no slots available")

// ErrNoBookingsFound is returned when a bookings listing matches zero
// rows. Zero results is a contractual error case for this API, not an
// empty success; handlers translate it into HTTP 400.
var ErrNoBookingsFound = errors.New("no bookings found")
