package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadFiles = 5

// UploadHandler streams post images into the Cloud Storage bucket
type UploadHandler struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(bucket *storage.BucketHandle, bucketName string) *UploadHandler {
	return &UploadHandler{bucket: bucket, bucketName: bucketName}
}

// RegisterUploadRoutes registers upload routes on the post group
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/image", h.UploadImages)
}

// UploadImages accepts up to five multipart files under the "upload" field
// and returns the public URLs of the stored objects. The response shape is
// {uploaded, url} in both the success and failure case.
func (h *UploadHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"uploaded": false, "url": nil})
	}

	files := form.File["upload"]
	if len(files) == 0 || len(files) > maxUploadFiles {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"uploaded": false, "url": nil})
	}

	ctx := c.Request().Context()
	urls := make([]string, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"uploaded": false, "url": nil})
		}

		ext := path.Ext(file.Filename)
		base := file.Filename[:len(file.Filename)-len(ext)]
		object := fmt.Sprintf("upload/%s%s%s", base, uuid.NewString(), ext)

		w := h.bucket.Object(object).NewWriter(ctx)
		if _, err := io.Copy(w, src); err != nil {
			src.Close()
			w.Close()
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"uploaded": false, "url": nil})
		}
		src.Close()
		if err := w.Close(); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"uploaded": false, "url": nil})
		}

		urls = append(urls, fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.bucketName, object))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"uploaded": true, "url": urls})
}
