package model

import "time"

// Booking records one consumed slot in a class.  A booking belongs to
// exactly one class and is deleted with it (ON DELETE CASCADE).  The
// client name and email are always those of the authenticated user
// that made the reservation, never values claimed in the request
// payload.  Bookings are immutable once created.
//
// Fields:
//  ID          – primary key identifier.
//  ClassID     – class the slot was consumed from.
//  ClientName  – username of the authenticated client.
//  ClientEmail – email of the authenticated client.
//  CreatedAt   – creation timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	ClassID     uint64    // bookings.class_id
	ClientName  string    // bookings.client_name
	ClientEmail string    // bookings.client_email
	CreatedAt   time.Time // bookings.created_at
}
