package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UploadImage handles POST /v1/admin/uploads.  It forwards the multipart
// "image" file to the media host and returns the stored URL; records keep
// only that reference string.
func (h *AdminHandler) UploadImage(c echo.Context) error {
	if h.Media == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "media storage not configured"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read upload"})
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	key := fmt.Sprintf("studs/%d%s", time.Now().UTC().UnixNano(), ext)

	url, err := h.Media.Put(c.Request().Context(), key, contentType, src)
	if err != nil {
		logrus.WithError(err).Error("upload: media store failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
