package core

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"lastday/internal/protocol"
)

// Sender delivers server packets to one client.
type Sender interface {
	Send(pkt *protocol.ServerPacket) error
}

type WebSocketConn struct {
	Conn *websocket.Conn
	mu   sync.Mutex
}

func (c *WebSocketConn) Send(pkt *protocol.ServerPacket) error {
	data := pkt.Marshal()
	c.mu.Lock()
	defer c.mu.Unlock()
	// WriteMessage 是线程不安全的，所以需要加锁
	c.Conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
	return c.Conn.WriteMessage(websocket.BinaryMessage, data)
}

// Ping sends a keepalive under the write lock.
func (c *WebSocketConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}
