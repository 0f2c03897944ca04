package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// defaultTimezone is used when the client does not supply a tz query
// parameter, matching the behavior of the legacy deployment.
const defaultTimezone = "Asia/Kolkata"

// ClassStore is the read surface the listing endpoint needs.
// Implemented by repository.ClassRepo.
type ClassStore interface {
	List(ctx context.Context) ([]model.Class, error)
}

// ClassHandler serves the class listing endpoint.
type ClassHandler struct {
	Classes ClassStore
}

func NewClassHandler(classes ClassStore) *ClassHandler {
	return &ClassHandler{Classes: classes}
}

// classResponse is the wire shape of a class in list responses. The
// datetime field carries the stored UTC instant rendered in the
// requested display zone.
type classResponse struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Instructor     string `json:"instructor"`
	Datetime       string `json:"datetime"`
	AvailableSlots int64  `json:"available_slots"`
}

// GetClasses handles GET /classes?tz=<IANA zone>. The tz parameter only
// affects how the scheduled datetime is formatted; stored values are
// never altered. An unknown zone is rejected with 400.
func (h *ClassHandler) GetClasses(c echo.Context) error {
	tz := c.QueryParam("tz")
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid timezone"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	classes, err := h.Classes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load classes"})
	}

	out := make([]classResponse, 0, len(classes))
	for _, cls := range classes {
		out = append(out, classResponse{
			ID:             cls.ID,
			Name:           cls.Name,
			Instructor:     cls.Instructor,
			Datetime:       cls.StartsAt.In(loc).Format(time.RFC3339),
			AvailableSlots: cls.AvailableSlots,
		})
	}
	return c.JSON(http.StatusOK, out)
}
