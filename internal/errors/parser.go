package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int
	Code    string // codes.go 참조
	Message string
}

// ParseError 저장소 계층 에러를 응답 코드로 변환
// 드라이버 원문은 노출하지 않음
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: getDefaultErrorMessage(context)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}

	errLower := strings.ToLower(err.Error())

	// PostgreSQL 23505 / SQLite UNIQUE constraint failed
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// PostgreSQL 23503 / SQLite FOREIGN KEY constraint failed
	if strings.Contains(errLower, "foreign key constraint") {
		if strings.Contains(errLower, "still referenced") {
			return ErrorInfo{Status: http.StatusConflict, Code: ResourceConflict, Message: "Other records still depend on this item"}
		}
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint failed") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Some values are out of range"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	errLower = strings.ToLower(errLower)
	switch {
	case strings.Contains(errLower, "chapter_number") || strings.Contains(errLower, "idx_chapter_book_number"):
		return ErrorInfo{Status: http.StatusConflict, Code: ChapterNumberTaken, Message: "That chapter number is already used in this book"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Status: http.StatusConflict, Code: AuthEmailAlreadyExists, Message: "That email is already registered"}
	case strings.Contains(errLower, "genres"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "A genre with that name already exists"}
	case strings.Contains(errLower, "tags"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "A tag with that name already exists"}
	case strings.Contains(errLower, "trends"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "A trend with that name already exists"}
	}
	return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "That record already exists"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	for _, entry := range []struct{ key, msg string }{
		{"chapter", "Chapter not found"},
		{"comment", "Comment not found"},
		{"reply", "Reply not found"},
		{"review", "Review not found"},
		{"book", "Book not found"},
		{"genre", "Genre not found"},
		{"tag", "Tag not found"},
		{"trend", "Trend not found"},
		{"user", "User not found"},
	} {
		if strings.Contains(contextLower, entry.key) {
			return entry.msg
		}
	}
	return "The requested item was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not save. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Could not update. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete. Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// ParseAndRespond 에러를 파싱하여 응답 반환
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	info := ParseError(err, context)
	c.JSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
