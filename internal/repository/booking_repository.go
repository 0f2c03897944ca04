package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// BookingRepo persists bookings and owns the slot-reservation
// transaction. Reserving is the only code path that decrements a
// class's available_slots counter.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Reserve atomically consumes one slot of the class and records a
// booking under the given client identity. Both mutations commit
// together or not at all.
//
// The class row is locked with SELECT ... FOR UPDATE for the duration
// of the transaction, so two concurrent reservations can never both
// observe the same free slot: the second locker waits for the first
// commit and then re-reads the decremented counter. The UPDATE guards
// on available_slots > 0 as well, keeping the counter non-negative
// even if the lock discipline were ever weakened.
//
// It returns ErrClassNotFound when the class id does not exist and
// ErrNoSlotsAvailable when the class is full; in both cases no rows
// are mutated.
func (r *BookingRepo) Reserve(ctx context.Context, classID uint64, clientName, clientEmail string) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var slots int64
	err = tx.QueryRowContext(ctx,
		`SELECT available_slots FROM classes WHERE id = ? FOR UPDATE`,
		classID).Scan(&slots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if slots <= 0 {
		return nil, ErrNoSlotsAvailable
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE classes SET available_slots = available_slots - 1 WHERE id = ? AND available_slots > 0`,
		classID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNoSlotsAvailable
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (class_id, client_name, client_email) VALUES (?, ?, ?)`,
		classID, clientName, clientEmail)
	if err != nil {
		return nil, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ID:          uint64(id),
		ClassID:     classID,
		ClientName:  clientName,
		ClientEmail: clientEmail,
	}
	// Query the row back to pick up the DB-assigned creation timestamp.
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id = ?`,
		booking.ID).Scan(&booking.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// ListByEmail returns all bookings whose client email matches the
// given address, newest first. A zero-row result is reported as
// ErrNoBookingsFound rather than an empty success; callers rely on
// that distinction.
func (r *BookingRepo) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	const q = `SELECT id, class_id, client_name, client_email, created_at
	           FROM bookings
	           WHERE client_email = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.ClassID, &b.ClientName, &b.ClientEmail, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrNoBookingsFound
	}
	return bookings, nil
}
