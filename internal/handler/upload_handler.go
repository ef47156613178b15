package handler

import (
	"net/http"

	"github.com/chorebattle/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

const maxPhotoBytes = 10 << 20

// UploadHandler accepts completion photos. A nil uploader means no bucket
// is configured and the endpoint answers 503.
type UploadHandler struct {
	uploader *storage.PhotoUploader
}

func NewUploadHandler(uploader *storage.PhotoUploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) UploadPhoto(c echo.Context) error {
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("storage_unavailable", "photo storage is not configured"))
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "photo file is required"))
	}
	if file.Size > maxPhotoBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse("too_large", "photo must be at most 10MB"))
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "could not read photo"))
	}
	defer src.Close()

	url, err := h.uploader.Upload(c.Request().Context(), src, file.Header.Get("Content-Type"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, map[string]string{"photoUrl": url})
}
