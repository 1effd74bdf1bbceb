package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024

	// 초당 최대 수신 메시지 수
	maxMessagesPerSecond = 10
)

// ServeClient attaches an upgraded connection to a chapter room and starts its pumps.
func ServeClient(hub *Hub, conn *websocket.Conn, chapterID, userID uint) *Client {
	client := &Client{
		hub:           hub,
		conn:          conn,
		ChapterID:     chapterID,
		UserID:        userID,
		send:          make(chan []byte, sendBufferSize),
		lastResetTime: time.Now(),
	}

	hub.Register(client)

	go client.writePump()
	go client.readPump()

	return client
}

// readPump 연결 종료 감지 및 pong 처리
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error", map[string]interface{}{
					"chapter_id": c.ChapterID,
					"error":      err.Error(),
				})
			}
			return
		}

		if !c.handleMessage(message) {
			return
		}
	}
}

// writePump 이벤트 전송 및 주기적 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 가 채널을 닫음
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("Failed to write comment event", map[string]interface{}{
					"chapter_id": c.ChapterID,
					"error":      err.Error(),
				})
				return
			}

			// 대기 중인 이벤트도 개별 프레임으로 전송
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
