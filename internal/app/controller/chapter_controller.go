package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
)

type ChapterController struct {
	chapterService service.ChapterService
}

func NewChapterController(chapterService service.ChapterService) *ChapterController {
	return &ChapterController{
		chapterService: chapterService,
	}
}

// ListChapters 목차
// GET /api/v1/books/:id/chapters
func (ctrl *ChapterController) ListChapters(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	toc, err := ctrl.chapterService.TableOfContents(bookID)
	if err != nil {
		respondServiceError(c, err, "list chapters")
		return
	}

	c.JSON(http.StatusOK, toc)
}

// GetChapter 챕터 본문
// GET /api/v1/chapters/:id
func (ctrl *ChapterController) GetChapter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	chapter, err := ctrl.chapterService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get chapter")
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// CreateChapter POST /api/v1/books/:id/chapters
func (ctrl *ChapterController) CreateChapter(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.ChapterInput
	if !bindJSON(c, &input) {
		return
	}

	chapter, err := ctrl.chapterService.Create(middleware.GetCaller(c), bookID, input)
	if err != nil {
		respondServiceError(c, err, "create chapter")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Chapter created", map[string]interface{}{
		"book_id":        bookID,
		"chapter_id":     chapter.ID,
		"chapter_number": chapter.ChapterNumber,
	})
	c.JSON(http.StatusCreated, chapter)
}

// UpdateChapter PUT /api/v1/chapters/:id
func (ctrl *ChapterController) UpdateChapter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.ChapterInput
	if !bindJSON(c, &input) {
		return
	}

	chapter, err := ctrl.chapterService.Update(middleware.GetCaller(c), id, input)
	if err != nil {
		respondServiceError(c, err, "update chapter")
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// DeleteChapter DELETE /api/v1/chapters/:id
func (ctrl *ChapterController) DeleteChapter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.chapterService.Delete(middleware.GetCaller(c), id); err != nil {
		respondServiceError(c, err, "delete chapter")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted"})
}

// ListArcs GET /api/v1/books/:id/arcs
func (ctrl *ChapterController) ListArcs(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	arcs, err := ctrl.chapterService.ListArcs(bookID)
	if err != nil {
		respondServiceError(c, err, "list arcs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"arcs": arcs})
}

// CreateArc POST /api/v1/books/:id/arcs
func (ctrl *ChapterController) CreateArc(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.ArcInput
	if !bindJSON(c, &input) {
		return
	}

	arc, err := ctrl.chapterService.CreateArc(middleware.GetCaller(c), bookID, input)
	if err != nil {
		respondServiceError(c, err, "create arc")
		return
	}

	c.JSON(http.StatusCreated, arc)
}
