package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const sendBufferSize = 256

var connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "fictionhub_comment_feed_clients",
	Help: "Open websocket connections on chapter comment feeds.",
})

// Client 챕터 댓글 피드 구독자 (비로그인은 UserID 0)
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	ChapterID uint
	UserID    uint
	send      chan []byte

	rateMu        sync.Mutex
	messageCount  int       // 최근 1초간 받은 메시지 수
	lastResetTime time.Time // 마지막 카운터 리셋 시간
}

// Hub 챕터별 구독자 관리
type Hub struct {
	// ChapterID -> 구독 중인 클라이언트
	rooms map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage

	mu sync.RWMutex
}

type roomMessage struct {
	chapterID uint
	payload   []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *roomMessage, 1024),
	}
}

// Run Hub 실행, ctx 종료 시 모든 연결 정리
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.ChapterID]; !ok {
				h.rooms[client.ChapterID] = make(map[*Client]bool)
			}
			h.rooms[client.ChapterID][client] = true
			size := len(h.rooms[client.ChapterID])
			h.mu.Unlock()
			connectedClients.Inc()

			logger.Debug("Comment feed client registered", map[string]interface{}{
				"chapter_id": client.ChapterID,
				"user_id":    client.UserID,
				"room_size":  size,
			})

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var stalled []*Client
			for client := range h.rooms[msg.chapterID] {
				select {
				case client.send <- msg.payload:
				default:
					stalled = append(stalled, client)
				}
			}
			h.mu.RUnlock()

			// 버퍼가 가득 찬 클라이언트는 연결 종료
			for _, client := range stalled {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"chapter_id": client.ChapterID,
					"user_id":    client.UserID,
				})
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.ChapterID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, client.ChapterID)
	}
	close(client.send)
	connectedClients.Dec()

	logger.Debug("Comment feed client unregistered", map[string]interface{}{
		"chapter_id": client.ChapterID,
		"user_id":    client.UserID,
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for chapterID, clients := range h.rooms {
		for client := range clients {
			close(client.send)
			connectedClients.Dec()
		}
		delete(h.rooms, chapterID)
	}
}

// Publish delivers a comment event to everyone watching the chapter.
// Delivery is best effort; a full broadcast queue drops the event.
func (h *Hub) Publish(event model.CommentEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal comment event", err, map[string]interface{}{
			"chapter_id": event.ChapterID,
		})
		return
	}

	select {
	case h.broadcast <- &roomMessage{chapterID: event.ChapterID, payload: payload}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"chapter_id": event.ChapterID,
			"type":       event.Type,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// RoomSize 챕터 구독자 수
func (h *Hub) RoomSize(chapterID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chapterID])
}

// allow 초당 메시지 수 제한
func (c *Client) allow(now time.Time) bool {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	if now.Sub(c.lastResetTime) >= time.Second {
		c.messageCount = 0
		c.lastResetTime = now
	}
	c.messageCount++
	return c.messageCount <= maxMessagesPerSecond
}

// handleMessage 피드는 읽기 전용이라 수신 메시지는 버림
// 초당 제한을 넘기면 false 를 반환해 연결을 끊음
func (c *Client) handleMessage(message []byte) bool {
	if !c.allow(time.Now()) {
		logger.Warn("Rate limit exceeded, closing comment feed", map[string]interface{}{
			"chapter_id": c.ChapterID,
			"user_id":    c.UserID,
		})
		return false
	}

	logger.Debug("Ignoring client message on comment feed", map[string]interface{}{
		"chapter_id": c.ChapterID,
		"size":       len(message),
	})
	return true
}
