package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/engine"
	"github.com/iliyamo/study-place-reservation/internal/model"
)

// ApprovalHandler serves the owner-side approval workflow.
type ApprovalHandler struct {
	Engine *engine.Engine
}

func NewApprovalHandler(e *engine.Engine) *ApprovalHandler {
	return &ApprovalHandler{Engine: e}
}

// Approve confirms a pending reservation on one of the caller's places.
func (h *ApprovalHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.Engine.ApproveReservation(c.Request().Context(), actor(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Reject cancels a pending or confirmed reservation on one of the
// caller's places.
func (h *ApprovalHandler) Reject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.Engine.RejectReservation(c.Request().Context(), actor(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListPending returns reservations awaiting a decision on the caller's
// places.
func (h *ApprovalHandler) ListPending(c echo.Context) error {
	out, err := h.Engine.ListPendingApprovalsFor(c.Request().Context(), actor(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// ListAll returns every reservation on the caller's places, optionally
// filtered by a ?status= query parameter.
func (h *ApprovalHandler) ListAll(c echo.Context) error {
	status := model.Status(c.QueryParam("status"))
	out, err := h.Engine.ListOwnerReservations(c.Request().Context(), actor(c), status)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}
