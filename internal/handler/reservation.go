package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/engine"
)

// ReservationHandler serves the booking endpoints used by students and
// teachers.
type ReservationHandler struct {
	Engine *engine.Engine
}

func NewReservationHandler(e *engine.Engine) *ReservationHandler {
	return &ReservationHandler{Engine: e}
}

type createReservationReq struct {
	StudyPlaceID uint64 `json:"study_place_id"`
	Date         string `json:"date"`       // YYYY-MM-DD
	StartTime    string `json:"start_time"` // HH:MM
	EndTime      string `json:"end_time"`   // HH:MM
}

// Create books a slot on a study place.  The new reservation starts
// out pending until the place owner decides on it.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil || req.StudyPlaceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	slot := engine.Slot{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	res, err := h.Engine.CreateReservation(c.Request().Context(), actor(c), req.StudyPlaceID, slot)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type editReservationReq struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Edit moves an owned reservation to a new slot.  A successful edit
// drops the reservation back to pending for re-approval.
func (h *ReservationHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req editReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	slot := engine.Slot{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	res, err := h.Engine.EditReservation(c.Request().Context(), actor(c), id, slot)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete removes a reservation.  The requester and the place owner may
// both do this.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Engine.DeleteReservation(c.Request().Context(), actor(c), id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	out, err := h.Engine.ListReservationsFor(c.Request().Context(), actor(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}
