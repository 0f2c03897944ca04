package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fitness-class-booking/internal/middleware"
	"github.com/iliyamo/fitness-class-booking/internal/model"
	"github.com/iliyamo/fitness-class-booking/internal/repository"
)

// fakeBookingStore implements BookingStore with the same semantics the
// SQL layer guarantees: reservation is atomic under the store mutex,
// existence is checked before capacity, and the counter never goes
// negative.
type fakeBookingStore struct {
	mu       sync.Mutex
	classes  map[uint64]*model.Class
	bookings []model.Booking
	nextID   uint64
	reserves int
}

func newFakeBookingStore(classes ...model.Class) *fakeBookingStore {
	s := &fakeBookingStore{classes: make(map[uint64]*model.Class)}
	for i := range classes {
		cls := classes[i]
		s.classes[cls.ID] = &cls
	}
	return s
}

func (s *fakeBookingStore) Reserve(_ context.Context, classID uint64, clientName, clientEmail string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserves++
	cls, ok := s.classes[classID]
	if !ok {
		return nil, repository.ErrClassNotFound
	}
	if cls.AvailableSlots <= 0 {
		return nil, repository.ErrNoSlotsAvailable
	}
	cls.AvailableSlots--
	s.nextID++
	b := model.Booking{
		ID:          s.nextID,
		ClassID:     classID,
		ClientName:  clientName,
		ClientEmail: clientEmail,
		CreatedAt:   time.Now().UTC(),
	}
	s.bookings = append(s.bookings, b)
	return &b, nil
}

func (s *fakeBookingStore) ListByEmail(_ context.Context, email string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for i := len(s.bookings) - 1; i >= 0; i-- {
		if s.bookings[i].ClientEmail == email {
			out = append(out, s.bookings[i])
		}
	}
	if len(out) == 0 {
		return nil, repository.ErrNoBookingsFound
	}
	return out, nil
}

func (s *fakeBookingStore) slots(classID uint64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classes[classID].AvailableSlots
}

func yogaClass(id uint64, slots int64) model.Class {
	return model.Class{
		ID:             id,
		Name:           "Morning Yoga",
		Instructor:     "Priya",
		StartsAt:       time.Date(2026, 9, 14, 6, 30, 0, 0, time.UTC),
		AvailableSlots: slots,
	}
}

var alice = middleware.Identity{UserID: 1, Username: "alice", Email: "alice@example.com"}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookClassRecordsAuthenticatedIdentity(t *testing.T) {
	e := echo.New()
	store := newFakeBookingStore(yogaClass(1, 5))
	h := NewBookingHandler(store, nil, nil)

	// Payload claims a different person; the booking must be recorded
	// under the authenticated identity.
	body := `{"class_id":1,"client_name":"Dummy","client_email":"dummy@x.com"}`
	c, rec := newJSONContext(e, http.MethodPost, "/book", body)
	middleware.SetIdentity(c, alice)

	require.NoError(t, h.BookClass(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Booking successful"}`, rec.Body.String())

	require.Len(t, store.bookings, 1)
	assert.Equal(t, "alice", store.bookings[0].ClientName)
	assert.Equal(t, "alice@example.com", store.bookings[0].ClientEmail)
	assert.Equal(t, int64(4), store.slots(1))
}

func TestBookClassUnknownClass(t *testing.T) {
	e := echo.New()
	store := newFakeBookingStore(yogaClass(1, 0))
	h := NewBookingHandler(store, nil, nil)

	// A missing class must yield 404, never "No slots available", even
	// though every existing class is full.
	c, rec := newJSONContext(e, http.MethodPost, "/book",
		`{"class_id":999,"client_name":"alice","client_email":"alice@example.com"}`)
	middleware.SetIdentity(c, alice)

	require.NoError(t, h.BookClass(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Class not found"}`, rec.Body.String())
	assert.Empty(t, store.bookings)
}

func TestBookClassNoSlotsAvailable(t *testing.T) {
	e := echo.New()
	store := newFakeBookingStore(yogaClass(1, 0))
	h := NewBookingHandler(store, nil, nil)

	c, rec := newJSONContext(e, http.MethodPost, "/book",
		`{"class_id":1,"client_name":"alice","client_email":"alice@example.com"}`)
	middleware.SetIdentity(c, alice)

	require.NoError(t, h.BookClass(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No slots available"}`, rec.Body.String())
	assert.Equal(t, int64(0), store.slots(1))
	assert.Empty(t, store.bookings)
}

func TestBookClassRejectsInvalidPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing class_id", `{"client_name":"alice","client_email":"alice@example.com"}`},
		{"empty client_name", `{"class_id":1,"client_name":"","client_email":"alice@example.com"}`},
		{"malformed client_email", `{"class_id":1,"client_name":"alice","client_email":"not-an-email"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			store := newFakeBookingStore(yogaClass(1, 5))
			h := NewBookingHandler(store, nil, nil)

			c, rec := newJSONContext(e, http.MethodPost, "/book", tc.body)
			middleware.SetIdentity(c, alice)

			require.NoError(t, h.BookClass(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["errors"])

			// Validation failures must be reported before any store access.
			assert.Zero(t, store.reserves)
			assert.Equal(t, int64(5), store.slots(1))
		})
	}
}

func TestBookClassWithoutIdentity(t *testing.T) {
	e := echo.New()
	h := NewBookingHandler(newFakeBookingStore(yogaClass(1, 5)), nil, nil)

	c, rec := newJSONContext(e, http.MethodPost, "/book",
		`{"class_id":1,"client_name":"alice","client_email":"alice@example.com"}`)

	require.NoError(t, h.BookClass(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	const slots = 3
	const attempts = 12

	e := echo.New()
	store := newFakeBookingStore(yogaClass(1, slots))
	h := NewBookingHandler(store, nil, nil)

	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, rec := newJSONContext(e, http.MethodPost, "/book",
				`{"class_id":1,"client_name":"alice","client_email":"alice@example.com"}`)
			middleware.SetIdentity(c, alice)
			if err := h.BookClass(c); err != nil {
				codes <- http.StatusInternalServerError
				return
			}
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	created, rejected := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}

	assert.Equal(t, slots, created)
	assert.Equal(t, attempts-slots, rejected)
	assert.Equal(t, int64(0), store.slots(1))
	assert.Len(t, store.bookings, slots)
}

func TestGetBookingsEmptyIsError(t *testing.T) {
	e := echo.New()
	h := NewBookingHandler(newFakeBookingStore(yogaClass(1, 5)), nil, nil)

	c, rec := newJSONContext(e, http.MethodGet, "/bookings", "")
	middleware.SetIdentity(c, alice)

	require.NoError(t, h.GetBookings(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"No bookings found"}`, rec.Body.String())
}

func TestBookThenListRoundTrip(t *testing.T) {
	e := echo.New()
	store := newFakeBookingStore(yogaClass(1, 5))
	h := NewBookingHandler(store, nil, nil)

	c, rec := newJSONContext(e, http.MethodPost, "/book",
		`{"class_id":1,"client_name":"Dummy","client_email":"dummy@x.com"}`)
	middleware.SetIdentity(c, alice)
	require.NoError(t, h.BookClass(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newJSONContext(e, http.MethodGet, "/bookings", "")
	middleware.SetIdentity(c, alice)
	require.NoError(t, h.GetBookings(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []bookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, uint64(1), items[0].FitnessClass)
	assert.Equal(t, "alice", items[0].ClientName)
	assert.Equal(t, "alice@example.com", items[0].ClientEmail)

	// Another identity with no bookings still gets the error case.
	c, rec = newJSONContext(e, http.MethodGet, "/bookings", "")
	middleware.SetIdentity(c, middleware.Identity{UserID: 2, Username: "bob", Email: "bob@example.com"})
	require.NoError(t, h.GetBookings(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRepeatedBookingsBySameIdentityAllowed(t *testing.T) {
	e := echo.New()
	store := newFakeBookingStore(yogaClass(1, 5))
	h := NewBookingHandler(store, nil, nil)

	for i := 0; i < 2; i++ {
		c, rec := newJSONContext(e, http.MethodPost, "/book",
			`{"class_id":1,"client_name":"alice","client_email":"alice@example.com"}`)
		middleware.SetIdentity(c, alice)
		require.NoError(t, h.BookClass(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Len(t, store.bookings, 2)
	assert.Equal(t, int64(3), store.slots(1))
}
