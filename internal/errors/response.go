package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 모든 에러 응답의 본문
// Error 는 codes.go 의 코드, Fields 는 검증 실패 시에만 채워짐
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// 코드별 기본 메시지
var defaultMessages = map[string]string{
	AuthUnauthorized:       "Sign in required",
	AuthzForbidden:         "You do not have permission to do that",
	InternalServerError:    "Something went wrong. Please try again later",
	ValidationInvalidInput: "Some fields are invalid",
}

func body(code, message string) ErrorResponse {
	if message == "" {
		message = defaultMessages[code]
	}
	return ErrorResponse{Error: code, Message: message}
}

// RespondWithError 에러 응답 작성, 핸들러 체인은 계속 진행
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, body(errorCode, message))
}

// Abort 미들웨어용, 응답 작성 후 이후 핸들러 중단
func Abort(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, body(errorCode, message))
}

func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationError 필드명 -> 실패한 검증 태그
func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	resp := body(ValidationInvalidInput, "")
	resp.Fields = fields
	c.JSON(http.StatusBadRequest, resp)
}
