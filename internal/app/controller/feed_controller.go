package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
	ws "github.com/ikkim/fictionhub-backend/internal/websocket"
)

// FeedController 챕터 댓글 실시간 피드
type FeedController struct {
	chapterService service.ChapterService
	hub            *ws.Hub
	upgrader       websocket.Upgrader
}

func NewFeedController(chapterService service.ChapterService, hub *ws.Hub, allowedOrigins []string) *FeedController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &FeedController{
		chapterService: chapterService,
		hub:            hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Origin 헤더가 없으면 브라우저 외 클라이언트
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// ChapterFeed 챕터 댓글 이벤트 구독
// GET /api/v1/ws/chapters/:id
// 토큰은 쿼리 파라미터로 받을 수 있으나 로깅하지 않음
func (ctrl *FeedController) ChapterFeed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	chapterID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := ctrl.chapterService.Get(chapterID); err != nil {
		respondServiceError(c, err, "open chapter feed")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	ws.ServeClient(ctrl.hub, conn, chapterID, userID)

	log.Info("Comment feed connection established", map[string]interface{}{
		"chapter_id": chapterID,
		"user_id":    userID,
	})
}
