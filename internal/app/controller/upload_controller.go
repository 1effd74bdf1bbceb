package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
	"github.com/ikkim/fictionhub-backend/internal/storage"
)

// CoverPresigner issues upload URLs for cover images
type CoverPresigner interface {
	PresignCoverUpload(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error)
}

type UploadController struct {
	storage CoverPresigner
}

func NewUploadController(storage CoverPresigner) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type CoverUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
}

// PresignCover generates a presigned URL for uploading a cover image to S3
// POST /api/v1/upload/cover
func (ctrl *UploadController) PresignCover(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CoverUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := ctrl.storage.PresignCoverUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			log.Warn("Invalid content type", map[string]interface{}{
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare the upload")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"key": upload.Key,
	})

	c.JSON(http.StatusOK, upload)
}
