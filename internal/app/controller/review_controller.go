package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// ListReviews 작품 리뷰 목록 (반응 집계 + 답글)
// GET /api/v1/books/:id/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	reviews, err := ctrl.reviewService.ListByBook(bookID, viewerID)
	if err != nil {
		respondServiceError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// UpsertReview 작품당 1인 1리뷰, 이미 있으면 수정
// PUT /api/v1/books/:id/reviews
func (ctrl *ReviewController) UpsertReview(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.ReviewInput
	if !bindJSON(c, &input) {
		return
	}

	review, created, err := ctrl.reviewService.Upsert(middleware.GetCaller(c), bookID, input)
	if err != nil {
		respondServiceError(c, err, "save review")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, review)
}

// DeleteReview 작성자/관리자
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.Delete(middleware.GetCaller(c), id); err != nil {
		respondServiceError(c, err, "delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// ReactToReview {type: like | dislike}
// POST /api/v1/reviews/:id/reactions
func (ctrl *ReviewController) ReactToReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	value, ok := bindReactionType(c)
	if !ok {
		return
	}

	summary, err := ctrl.reviewService.React(middleware.GetCaller(c), id, value)
	if err != nil {
		respondServiceError(c, err, "react to review")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CreateReply POST /api/v1/reviews/:id/replies
func (ctrl *ReviewController) CreateReply(c *gin.Context) {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.ReplyInput
	if !bindJSON(c, &input) {
		return
	}

	reply, err := ctrl.reviewService.CreateReply(middleware.GetCaller(c), reviewID, input)
	if err != nil {
		respondServiceError(c, err, "create reply")
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// UpdateReply PUT /api/v1/replies/:id
func (ctrl *ReviewController) UpdateReply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.ReplyInput
	if !bindJSON(c, &input) {
		return
	}

	reply, err := ctrl.reviewService.UpdateReply(middleware.GetCaller(c), id, input)
	if err != nil {
		respondServiceError(c, err, "update reply")
		return
	}

	c.JSON(http.StatusOK, reply)
}

// DeleteReply DELETE /api/v1/replies/:id
func (ctrl *ReviewController) DeleteReply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReply(middleware.GetCaller(c), id); err != nil {
		respondServiceError(c, err, "delete reply")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted"})
}

// ReactToReply POST /api/v1/replies/:id/reactions
func (ctrl *ReviewController) ReactToReply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	value, ok := bindReactionType(c)
	if !ok {
		return
	}

	summary, err := ctrl.reviewService.ReactToReply(middleware.GetCaller(c), id, value)
	if err != nil {
		respondServiceError(c, err, "react to reply")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func bindReactionType(c *gin.Context) (model.ReactionValue, bool) {
	var input model.ReviewReactionInput
	if !bindJSON(c, &input) {
		return model.ReactionNone, false
	}
	value, ok := model.ParseReactionType(input.Type)
	if !ok {
		respondServiceError(c, service.ErrInvalidReaction, "react")
		return model.ReactionNone, false
	}
	return value, true
}
