package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// ClassRepo provides read access to the classes table. The
// available_slots counter is mutated exclusively by the reservation
// transaction in BookingRepo; no method here writes to it.
type ClassRepo struct {
	db *sql.DB
}

// NewClassRepo returns a new ClassRepo bound to the given database.
func NewClassRepo(db *sql.DB) *ClassRepo { return &ClassRepo{db: db} }

// List returns all classes ordered by their scheduled start time.
// Timestamps come back in UTC (the pool is opened with loc=UTC).
func (r *ClassRepo) List(ctx context.Context) ([]model.Class, error) {
	const q = `SELECT id, name, instructor, starts_at, available_slots, created_at, updated_at
	           FROM classes
	           ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]model.Class, 0)
	for rows.Next() {
		var cls model.Class
		if err := rows.Scan(&cls.ID, &cls.Name, &cls.Instructor, &cls.StartsAt,
			&cls.AvailableSlots, &cls.CreatedAt, &cls.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, cls)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return classes, nil
}

// GetByID retrieves a single class. It returns ErrClassNotFound when
// no row matches.
func (r *ClassRepo) GetByID(ctx context.Context, id uint64) (*model.Class, error) {
	const q = `SELECT id, name, instructor, starts_at, available_slots, created_at, updated_at
	           FROM classes WHERE id = ? LIMIT 1`
	var cls model.Class
	err := r.db.QueryRowContext(ctx, q, id).Scan(&cls.ID, &cls.Name, &cls.Instructor,
		&cls.StartsAt, &cls.AvailableSlots, &cls.CreatedAt, &cls.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &cls, nil
}
