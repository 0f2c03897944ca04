package model

import "time"

// Class represents a scheduled fitness session as stored in the
// `classes` table.  Each class has a finite slot capacity that is
// consumed one slot per booking.  StartsAt is persisted in UTC; any
// timezone conversion happens at the presentation layer only.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name of the class (e.g. "Morning Yoga").
//  Instructor     – name of the instructor running the session.
//  StartsAt       – scheduled start instant, stored in UTC.
//  AvailableSlots – remaining capacity; never negative.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Class struct {
	ID             uint64    // classes.id
	Name           string    // classes.name
	Instructor     string    // classes.instructor
	StartsAt       time.Time // classes.starts_at
	AvailableSlots int64     // classes.available_slots
	CreatedAt      time.Time // classes.created_at
	UpdatedAt      time.Time // classes.updated_at
}
