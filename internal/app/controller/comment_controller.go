package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// ListComments 챕터 댓글 트리 (로그인 시 myReaction 포함)
// GET /api/v1/chapters/:id/comments
func (ctrl *CommentController) ListComments(c *gin.Context) {
	chapterID, ok := parseID(c, "id")
	if !ok {
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	tree, err := ctrl.commentService.ListTree(chapterID, viewerID)
	if err != nil {
		respondServiceError(c, err, "list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": tree})
}

// CreateComment POST /api/v1/chapters/:id/comments
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	chapterID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.CommentInput
	if !bindJSON(c, &input) {
		return
	}

	node, err := ctrl.commentService.Create(middleware.GetCaller(c), chapterID, input)
	if err != nil {
		respondServiceError(c, err, "create comment")
		return
	}

	c.JSON(http.StatusCreated, node)
}

// UpdateComment 작성자만 수정 가능
// PUT /api/v1/comments/:id
func (ctrl *CommentController) UpdateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.CommentUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	node, err := ctrl.commentService.Update(middleware.GetCaller(c), id, input)
	if err != nil {
		respondServiceError(c, err, "update comment")
		return
	}

	c.JSON(http.StatusOK, node)
}

// DeleteComment 하위 댓글까지 삭제 표시
// DELETE /api/v1/comments/:id
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	count, err := ctrl.commentService.Delete(middleware.GetCaller(c), id)
	if err != nil {
		respondServiceError(c, err, "delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Comment deleted",
		"deletedCount": count,
	})
}

// ReactToComment {value: 1 | -1} 같은 값이면 취소
// POST /api/v1/comments/:id/reactions
func (ctrl *CommentController) ReactToComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input model.CommentReactionInput
	if !bindJSON(c, &input) {
		return
	}

	summary, err := ctrl.commentService.React(middleware.GetCaller(c), id, model.ReactionValue(input.Value))
	if err != nil {
		respondServiceError(c, err, "react to comment")
		return
	}

	c.JSON(http.StatusOK, summary)
}
