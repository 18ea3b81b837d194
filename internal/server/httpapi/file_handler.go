package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Files issues presigned upload and download URLs.
type Files interface {
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

type FileHandler struct {
	files Files
}

func NewFileHandler(files Files) *FileHandler {
	return &FileHandler{files: files}
}

// Upload hands the client a presigned PUT URL; the object body goes straight
// to the storage backend.
func (h *FileHandler) Upload(c *gin.Context) {
	key, url, err := h.files.GetPresignedPutUrl(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "uploadUrl": url})
}

func (h *FileHandler) Download(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	url, err := h.files.GetPresignedGetUrl(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
