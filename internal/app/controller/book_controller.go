package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	apperrors "github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
)

type BookController struct {
	catalogService service.CatalogService
	bookService    service.BookService
}

func NewBookController(catalogService service.CatalogService, bookService service.BookService) *BookController {
	return &BookController{
		catalogService: catalogService,
		bookService:    bookService,
	}
}

// Browse 작품 목록 (필터/정렬/페이지)
// GET /api/v1/books
func (ctrl *BookController) Browse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query model.BrowseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.Warn("Invalid browse query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid query parameters")
		return
	}
	query.Statuses = queryStrings(c, "statuses")
	query.GenreIDs = queryIDs(c, "genreIds")
	query.ExcludeGenreIDs = queryIDs(c, "excludeGenreIds")
	query.TagIDs = queryIDs(c, "tagIds")
	query.ExcludeTagIDs = queryIDs(c, "excludeTagIds")

	page, err := ctrl.catalogService.Browse(query)
	if err != nil {
		respondServiceError(c, err, "browse books")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetBook 작품 상세 (조회수 증가)
// GET /api/v1/books/:id
func (ctrl *BookController) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := ctrl.bookService.GetDetail(id)
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateBook 작품 등록 (작가/관리자)
// POST /api/v1/books
func (ctrl *BookController) CreateBook(c *gin.Context) {
	var input model.BookInput
	if !bindJSON(c, &input) {
		return
	}

	detail, err := ctrl.bookService.Create(middleware.GetCaller(c), input)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Book created", map[string]interface{}{
		"book_id": detail.ID,
	})
	c.JSON(http.StatusCreated, detail)
}

// UpdateBook 작품 수정 (작가 본인/관리자)
// PUT /api/v1/books/:id
func (ctrl *BookController) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.BookInput
	if !bindJSON(c, &input) {
		return
	}

	detail, err := ctrl.bookService.Update(middleware.GetCaller(c), id, input)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteBook 작품 삭제 (soft delete)
// DELETE /api/v1/books/:id
func (ctrl *BookController) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.bookService.Delete(middleware.GetCaller(c), id); err != nil {
		respondServiceError(c, err, "delete book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
}

// HardDeleteBook 작품 영구 삭제 (관리자)
// DELETE /api/v1/admin/books/:id
func (ctrl *BookController) HardDeleteBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.bookService.HardDelete(middleware.GetCaller(c), id); err != nil {
		respondServiceError(c, err, "delete book permanently")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Book permanently deleted", map[string]interface{}{
		"book_id": id,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Book permanently deleted"})
}
