package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/engine"
)

// ReactionHandler serves likes, comments and the count aggregates.
type ReactionHandler struct {
	Engine *engine.Engine
}

func NewReactionHandler(e *engine.Engine) *ReactionHandler {
	return &ReactionHandler{Engine: e}
}

// ToggleLike flips the caller's like on a study place and returns the
// resulting state with the recomputed total.
func (h *ReactionHandler) ToggleLike(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Engine.ToggleLike(c.Request().Context(), actor(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type commentReq struct {
	Content string `json:"content"`
}

// AddComment appends a comment to a study place.
func (h *ReactionHandler) AddComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cm, err := h.Engine.AddComment(c.Request().Context(), actor(c), id, req.Content)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, cm)
}

// ListComments returns the comments of a place, newest first.
func (h *ReactionHandler) ListComments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Engine.ListComments(c.Request().Context(), actor(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": out})
}

// Counts returns the current like and comment totals of a place,
// recomputed from the ledger on every call.
func (h *ReactionHandler) Counts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Engine.ResourceCounts(c.Request().Context(), actor(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
