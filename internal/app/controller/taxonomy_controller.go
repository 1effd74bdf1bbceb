package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
)

type TaxonomyController struct {
	taxonomyService service.TaxonomyService
}

func NewTaxonomyController(taxonomyService service.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{
		taxonomyService: taxonomyService,
	}
}

// ListGenres GET /api/v1/genres
func (ctrl *TaxonomyController) ListGenres(c *gin.Context) {
	genres, err := ctrl.taxonomyService.ListGenres()
	if err != nil {
		respondServiceError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// ListTags GET /api/v1/tags
func (ctrl *TaxonomyController) ListTags(c *gin.Context) {
	tags, err := ctrl.taxonomyService.ListTags()
	if err != nil {
		respondServiceError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// ListTrends GET /api/v1/trends
func (ctrl *TaxonomyController) ListTrends(c *gin.Context) {
	trends, err := ctrl.taxonomyService.ListTrends()
	if err != nil {
		respondServiceError(c, err, "list trends")
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// CreateGenre POST /api/v1/admin/genres
func (ctrl *TaxonomyController) CreateGenre(c *gin.Context) {
	var input model.TaxonomyInput
	if !bindJSON(c, &input) {
		return
	}

	genre, err := ctrl.taxonomyService.CreateGenre(input)
	if err != nil {
		respondServiceError(c, err, "create genre")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Genre created", map[string]interface{}{
		"genre_id": genre.ID,
		"name":     genre.Name,
	})
	c.JSON(http.StatusCreated, genre)
}

// UpdateGenre PUT /api/v1/admin/genres/:id
func (ctrl *TaxonomyController) UpdateGenre(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.TaxonomyInput
	if !bindJSON(c, &input) {
		return
	}

	genre, err := ctrl.taxonomyService.UpdateGenre(id, input)
	if err != nil {
		respondServiceError(c, err, "update genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// DeleteGenre DELETE /api/v1/admin/genres/:id
func (ctrl *TaxonomyController) DeleteGenre(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.taxonomyService.DeleteGenre(id); err != nil {
		respondServiceError(c, err, "delete genre")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Genre deleted"})
}

// CreateTag POST /api/v1/admin/tags
func (ctrl *TaxonomyController) CreateTag(c *gin.Context) {
	var input model.TaxonomyInput
	if !bindJSON(c, &input) {
		return
	}

	tag, err := ctrl.taxonomyService.CreateTag(input)
	if err != nil {
		respondServiceError(c, err, "create tag")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})
	c.JSON(http.StatusCreated, tag)
}

// UpdateTag PUT /api/v1/admin/tags/:id
func (ctrl *TaxonomyController) UpdateTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.TaxonomyInput
	if !bindJSON(c, &input) {
		return
	}

	tag, err := ctrl.taxonomyService.UpdateTag(id, input)
	if err != nil {
		respondServiceError(c, err, "update tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// DeleteTag DELETE /api/v1/admin/tags/:id
func (ctrl *TaxonomyController) DeleteTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.taxonomyService.DeleteTag(id); err != nil {
		respondServiceError(c, err, "delete tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}

// CreateTrend POST /api/v1/admin/trends
func (ctrl *TaxonomyController) CreateTrend(c *gin.Context) {
	var input model.TrendInput
	if !bindJSON(c, &input) {
		return
	}

	trend, err := ctrl.taxonomyService.CreateTrend(input)
	if err != nil {
		respondServiceError(c, err, "create trend")
		return
	}
	c.JSON(http.StatusCreated, trend)
}

// UpdateTrend PUT /api/v1/admin/trends/:id
func (ctrl *TaxonomyController) UpdateTrend(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.TrendInput
	if !bindJSON(c, &input) {
		return
	}

	trend, err := ctrl.taxonomyService.UpdateTrend(id, input)
	if err != nil {
		respondServiceError(c, err, "update trend")
		return
	}
	c.JSON(http.StatusOK, trend)
}

// DeleteTrend DELETE /api/v1/admin/trends/:id
func (ctrl *TaxonomyController) DeleteTrend(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.taxonomyService.DeleteTrend(id); err != nil {
		respondServiceError(c, err, "delete trend")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trend deleted"})
}

// AddBookToTrend POST /api/v1/admin/trends/:id/books/:bookId
func (ctrl *TaxonomyController) AddBookToTrend(c *gin.Context) {
	trendID, ok := parseID(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseID(c, "bookId")
	if !ok {
		return
	}

	if err := ctrl.taxonomyService.AddBookToTrend(trendID, bookID); err != nil {
		respondServiceError(c, err, "add book to trend")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book added to trend"})
}

// RemoveBookFromTrend DELETE /api/v1/admin/trends/:id/books/:bookId
func (ctrl *TaxonomyController) RemoveBookFromTrend(c *gin.Context) {
	trendID, ok := parseID(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseID(c, "bookId")
	if !ok {
		return
	}

	if err := ctrl.taxonomyService.RemoveBookFromTrend(trendID, bookID); err != nil {
		respondServiceError(c, err, "remove book from trend")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book removed from trend"})
}
