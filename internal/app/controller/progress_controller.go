package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	apperrors "github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
)

type ProgressController struct {
	progressService service.ProgressService
}

func NewProgressController(progressService service.ProgressService) *ProgressController {
	return &ProgressController{
		progressService: progressService,
	}
}

// SaveProgress 마지막으로 읽은 챕터 기록
// PUT /api/v1/me/progress/:bookId
func (ctrl *ProgressController) SaveProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	bookID, ok := parseID(c, "bookId")
	if !ok {
		return
	}

	var input model.ProgressInput
	if !bindJSON(c, &input) {
		return
	}

	progress, err := ctrl.progressService.Save(userID, bookID, input)
	if err != nil {
		respondServiceError(c, err, "save progress")
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ListProgress GET /api/v1/me/progress
func (ctrl *ProgressController) ListProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	entries, err := ctrl.progressService.List(userID)
	if err != nil {
		respondServiceError(c, err, "list progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": entries})
}
