package upload

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/service/upload"
	"JapaneseShikhi/pkg/logger"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Room for the multipart envelope around the file itself.
const formOverhead = 1 << 20

type UploadService interface {
	Upload(ctx context.Context, kind upload.Kind, filename string, reader io.Reader, size int64) (*upload.File, error)
	FileURL(ctx context.Context, objectKey string) (string, error)
}

type UploadHandler struct {
	log     logger.Log
	service UploadService
}

func NewUploadHandler(l logger.Log, s UploadService) *UploadHandler {
	return &UploadHandler{
		log:     l,
		service: s,
	}
}

func (h *UploadHandler) UploadScreenshot(c *gin.Context) {
	h.upload(c, upload.KindScreenshot)
}

func (h *UploadHandler) UploadAttachment(c *gin.Context) {
	h.upload(c, upload.KindAttachment)
}

func (h *UploadHandler) upload(c *gin.Context, kind upload.Kind) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxFileSize+formOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, app_errors.ErrFileSize)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	res, err := h.service.Upload(c.Request.Context(), kind, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// File redirects to a short-lived download URL for the stored object.
func (h *UploadHandler) File(c *gin.Context) {
	url, err := h.service.FileURL(c.Request.Context(), c.Param("key"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
