package core

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lastday/internal/dao"
	"lastday/internal/log"
	"lastday/internal/protocol"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	wsReadDeadline  = 60 * time.Second
	wsWriteDeadline = 10 * time.Second
	wsPingPeriod    = 30 * time.Second
)

// HandleWebSocket joins a client to a room. The ticket comes from login and
// resolves to the account through redis; without redis everybody plays as a
// guest.
func HandleWebSocket(c *gin.Context) {
	roomID := c.Query("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id required"})
		return
	}

	sess := dao.Session{Name: c.DefaultQuery("name", "nameless tee")}
	if dao.RDB != nil {
		ticket := c.Query("ticket")
		if ticket == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ticket required"})
			return
		}
		s, err := dao.GetSession(c.Request.Context(), ticket)
		if errors.Is(err, dao.ErrNoSession) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid ticket"})
			return
		}
		if err != nil {
			log.Error("session lookup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		sess = s
	}

	room := CreateRoom(roomID)
	if room == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server full"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	conn := &WebSocketConn{Conn: ws}
	session := NewSession(sess.UserID, sess.Name, conn)
	if !room.Enter(session) {
		log.Debug("room closed before join", "room", roomID)
		return
	}
	defer room.Exit(session)

	ws.SetReadDeadline(time.Now().Add(wsReadDeadline))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	pingTicker := time.NewTicker(wsPingPeriod)
	defer pingTicker.Stop()

	messageChan := make(chan []byte)
	doneChan := make(chan struct{})

	go func() {
		defer close(doneChan)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				log.Debug("read closed", "room", roomID, "user", sess.UserID, "error", err)
				return
			}
			select {
			case messageChan <- data:
			case <-time.After(wsReadDeadline):
				return
			}
		}
	}()

	for {
		select {
		case <-pingTicker.C:
			if err := conn.Ping(); err != nil {
				log.Debug("ping failed", "room", roomID, "error", err)
				return
			}

		case data := <-messageChan:
			ws.SetReadDeadline(time.Now().Add(wsReadDeadline))

			pkt, err := protocol.UnmarshalClientPacket(data)
			if err != nil {
				continue
			}
			if !room.Submit(session, pkt) {
				log.Debug("room closed", "room", roomID)
				return
			}

		case <-doneChan:
			return
		}
	}
}
