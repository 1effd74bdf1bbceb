package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	apperrors "github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
	"github.com/ikkim/fictionhub-backend/pkg/util"
)

// 서비스 sentinel 에러 -> HTTP 응답 매핑
var serviceErrorTable = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{service.ErrBookNotFound, http.StatusNotFound, apperrors.BookNotFound, "Book not found"},
	{service.ErrBookAccessDenied, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the book's author or an admin can do that"},
	{service.ErrUnknownGenre, http.StatusBadRequest, apperrors.GenreNotFound, "One of the genres does not exist"},
	{service.ErrUnknownTag, http.StatusBadRequest, apperrors.TagNotFound, "One of the tags does not exist"},
	{service.ErrChapterNotFound, http.StatusNotFound, apperrors.ChapterNotFound, "Chapter not found"},
	{service.ErrChapterNumberTaken, http.StatusConflict, apperrors.ChapterNumberTaken, "That chapter number is already used in this book"},
	{service.ErrArcNotFound, http.StatusBadRequest, apperrors.ArcNotFound, "Arc not found in this book"},
	{service.ErrChapterNotInBook, http.StatusBadRequest, apperrors.ChapterNotFound, "Chapter does not belong to this book"},
	{service.ErrCommentNotFound, http.StatusNotFound, apperrors.CommentNotFound, "Comment not found"},
	{service.ErrCommentAccessDenied, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You cannot modify this comment"},
	{service.ErrCommentDeleted, http.StatusConflict, apperrors.CommentAlreadyDeleted, "Comment has been deleted"},
	{service.ErrInvalidParent, http.StatusBadRequest, apperrors.CommentParentMismatch, "Parent comment does not belong to this chapter"},
	{service.ErrEmptyContent, http.StatusBadRequest, apperrors.ValidationRequired, "Content must not be empty"},
	{service.ErrInvalidReaction, http.StatusBadRequest, apperrors.ReactionInvalid, "Reaction must be like or dislike"},
	{service.ErrReviewNotFound, http.StatusNotFound, apperrors.ReviewNotFound, "Review not found"},
	{service.ErrReviewAccessDenied, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You cannot modify this review"},
	{service.ErrInvalidScore, http.StatusBadRequest, apperrors.ReviewInvalidRating, "Scores must be between 0 and 5 (emotional damage 1 to 5)"},
	{service.ErrReplyNotFound, http.StatusNotFound, apperrors.ReplyNotFound, "Reply not found"},
	{service.ErrReplyAccessDenied, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You cannot modify this reply"},
	{service.ErrGenreNotFound, http.StatusNotFound, apperrors.GenreNotFound, "Genre not found"},
	{service.ErrTagNotFound, http.StatusNotFound, apperrors.TagNotFound, "Tag not found"},
	{service.ErrTrendNotFound, http.StatusNotFound, apperrors.TrendNotFound, "Trend not found"},
	{service.ErrEmptyName, http.StatusBadRequest, apperrors.ValidationRequired, "Name must not be empty"},
	{service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists, "That email is already registered"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Email or password is incorrect"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "User not found"},
	{util.ErrPasswordTooShort, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Password must be at least 8 characters"},
}

// respondServiceError maps a service error to its JSON response.
// Unknown errors go through the persistence parser and are logged.
func respondServiceError(c *gin.Context, err error, action string) {
	for _, entry := range serviceErrorTable {
		if errors.Is(err, entry.err) {
			apperrors.RespondWithError(c, entry.status, entry.code, entry.message)
			return
		}
	}

	info := apperrors.ParseError(err, action)
	if info.Status >= http.StatusInternalServerError {
		middleware.GetLoggerFromContext(c).Error("Request failed", err, map[string]interface{}{
			"action": action,
		})
	}
	apperrors.RespondWithError(c, info.Status, info.Code, info.Message)
}

// parseID 경로 파라미터를 양의 정수 ID 로 파싱
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// bindJSON 요청 본문 바인딩, 실패 시 필드별 오류 응답
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		middleware.GetLoggerFromContext(c).Warn("Request validation failed", map[string]interface{}{
			"fields": fields,
		})
		apperrors.RespondWithValidationError(c, fields)
		return false
	}

	middleware.GetLoggerFromContext(c).Warn("Malformed request body", map[string]interface{}{
		"error": err.Error(),
	})
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Malformed request body")
	return false
}

// queryIDs 반복 키(?a=1&a=2)와 콤마 구분(?a=1,2)을 모두 허용
// 숫자가 아닌 값은 무시
func queryIDs(c *gin.Context, key string) []uint {
	var ids []uint
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil || id == 0 {
				continue
			}
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// queryStrings 콤마 구분 문자열 목록
func queryStrings(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
