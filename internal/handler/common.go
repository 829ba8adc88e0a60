// Package handler exposes the reservation engine over HTTP.  Handlers
// do no business logic of their own: they decode the request, hand it
// to the engine and translate the engine's error taxonomy into status
// codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/engine"
	"github.com/iliyamo/study-place-reservation/internal/model"
)

// actor builds the engine actor from the claims JWTAuth stored in the
// request context.
func actor(c echo.Context) engine.Actor {
	var a engine.Actor
	if id, ok := c.Get("user_id").(uint64); ok {
		a.ID = id
	}
	if role, ok := c.Get("role").(string); ok {
		a.Role = model.Role(role)
	}
	return a
}

// pathID parses the named path parameter as an unsigned integer ID.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// httpError translates an engine error into a JSON response.  Every
// engine failure is one of the sentinel kinds, so the mapping below is
// exhaustive; anything else is a 500.
func httpError(c echo.Context, err error) error {
	var partial *engine.PartialFailure
	if errors.As(err, &partial) {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":     "partial failure",
			"completed": partial.Completed,
			"detail":    partial.Err.Error(),
		})
	}
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrUnauthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, engine.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, engine.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidInterval), errors.Is(err, engine.ErrEmptyContent):
		code = http.StatusBadRequest
	case errors.Is(err, engine.ErrSlotConflict), errors.Is(err, engine.ErrInvalidTransition):
		code = http.StatusConflict
	case errors.Is(err, engine.ErrUnavailable):
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, echo.Map{"error": err.Error()})
}
