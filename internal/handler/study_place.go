package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/engine"
)

// Uploader stores an uploaded file and returns its public URL.  The
// MinIO-backed blob store satisfies this; a nil Uploader disables
// image uploads.
type Uploader interface {
	Upload(ctx context.Context, filename string, size int64, r io.Reader, contentType string) (string, error)
}

// StudyPlaceHandler serves the resource catalog endpoints.
type StudyPlaceHandler struct {
	Engine *engine.Engine
	Blobs  Uploader
}

func NewStudyPlaceHandler(e *engine.Engine, blobs Uploader) *StudyPlaceHandler {
	return &StudyPlaceHandler{Engine: e, Blobs: blobs}
}

// List returns every study place with creator name, like and comment
// counts, and whether the caller has liked it.
func (h *StudyPlaceHandler) List(c echo.Context) error {
	out, err := h.Engine.ListResources(c.Request().Context(), actor(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"study_places": out})
}

// Get returns a single study place with its counters.
func (h *StudyPlaceHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Engine.GetResource(c.Request().Context(), actor(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Create publishes a new study place.  The request is multipart form
// data so an image can be attached; the image is uploaded to blob
// storage first and only its URL is stored.
func (h *StudyPlaceHandler) Create(c echo.Context) error {
	in := engine.CreateResourceInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
	}

	if file, err := c.FormFile("image"); err == nil && h.Blobs != nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
		}
		defer src.Close()
		url, err := h.Blobs.Upload(c.Request().Context(), file.Filename, file.Size, src,
			file.Header.Get("Content-Type"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		}
		in.ImageURL = &url
	}

	p, err := h.Engine.CreateResource(c.Request().Context(), actor(c), in)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

type availabilityReq struct {
	Available *bool `json:"available"`
}

// SetAvailability flips the availability flag of an owned place.
func (h *StudyPlaceHandler) SetAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil || req.Available == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available required"})
	}
	p, err := h.Engine.SetAvailability(c.Request().Context(), actor(c), id, *req.Available)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes an owned place with all its reservations, likes and
// comments, then its stored image.
func (h *StudyPlaceHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Engine.DeleteResource(c.Request().Context(), actor(c), id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
