package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/middleware"
	"github.com/iliyamo/fitness-class-booking/internal/model"
	"github.com/iliyamo/fitness-class-booking/internal/queue"
	"github.com/iliyamo/fitness-class-booking/internal/repository"
	"github.com/iliyamo/fitness-class-booking/internal/validator"
)

// BookingStore is the persistence surface of the reservation engine.
// Reserve must be atomic: one slot decrement and one booking insert
// commit together or not at all, and concurrent calls against the same
// class can never oversell it. Implemented by repository.BookingRepo.
type BookingStore interface {
	Reserve(ctx context.Context, classID uint64, clientName, clientEmail string) (*model.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]model.Booking, error)
}

// ClassGetter loads a single class. Used only to enrich the confirmed
// event; reservation correctness never depends on it.
type ClassGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Class, error)
}

// BookingHandler serves slot reservation and booking listing. All
// methods assume JWT authentication has already run; the verified
// identity is read from the request context, and payload-supplied
// name/email are never trusted for ownership.
type BookingHandler struct {
	Bookings BookingStore
	Classes  ClassGetter
	// Publish sends a booking-confirmed event after a successful
	// reservation. Best effort: a nil Publish or a failed publish
	// never affects the response.
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

func NewBookingHandler(bookings BookingStore, classes ClassGetter,
	publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error) *BookingHandler {
	if bookings == nil {
		panic("nil BookingStore passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Classes: classes, Publish: publish}
}

// bookRequest is the POST /book payload. client_name and client_email
// are validated for shape only and then ignored: the booking is always
// recorded under the authenticated identity. The fields remain in the
// schema for backward compatibility with existing clients.
type bookRequest struct {
	ClassID     uint64 `json:"class_id" validate:"required"`
	ClientName  string `json:"client_name" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required,email"`
}

// bookingResponse is the wire shape of a booking in list responses.
// fitness_class carries the class id, mirroring the legacy API.
type bookingResponse struct {
	ID           uint64 `json:"id"`
	FitnessClass uint64 `json:"fitness_class"`
	ClientName   string `json:"client_name"`
	ClientEmail  string `json:"client_email"`
}

// BookClass handles POST /book. Validation runs before any store
// access; on success exactly one slot is consumed and one booking row
// created, and a confirmation event is published asynchronously.
func (h *BookingHandler) BookClass(c echo.Context) error {
	ident, ok := middleware.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if errs := validator.Struct(req); errs != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.Reserve(ctx, req.ClassID, ident.Username, ident.Email)
	if err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Class not found"})
		}
		if errors.Is(err, repository.ErrNoSlotsAvailable) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No slots available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	h.publishConfirmed(booking, ident)

	return c.JSON(http.StatusCreated, echo.Map{"message": "Booking successful"})
}

// publishConfirmed builds and sends the booking-confirmed event in the
// background. Class details are looked up best effort.
func (h *BookingHandler) publishConfirmed(booking *model.Booking, ident middleware.Identity) {
	if h.Publish == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   booking.ID,
		ClassID:     booking.ClassID,
		UserID:      ident.UserID,
		ClientName:  booking.ClientName,
		ClientEmail: booking.ClientEmail,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if h.Classes != nil {
			if cls, err := h.Classes.GetByID(ctx, booking.ClassID); err == nil {
				ev.ClassName = cls.Name
				ev.Instructor = cls.Instructor
				ev.StartsAt = cls.StartsAt.UTC().Format(time.RFC3339)
			}
		}
		_ = h.Publish(ctx, ev)
	}()
}

// GetBookings handles GET /bookings. It lists the bookings belonging
// to the authenticated identity's email. An empty result is reported
// as 400 "No bookings found"; callers treat zero results as an error
// case, not a valid empty list.
func (h *BookingHandler) GetBookings(c echo.Context) error {
	ident, ok := middleware.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByEmail(ctx, ident.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNoBookingsFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "No bookings found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingResponse{
			ID:           b.ID,
			FitnessClass: b.ClassID,
			ClientName:   b.ClientName,
			ClientEmail:  b.ClientEmail,
		})
	}
	return c.JSON(http.StatusOK, out)
}
