package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsRecord is the wire shape of a streamed record.
type wsRecord struct {
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"kind"`
	Key         string `json:"key,omitempty"`
	Value       int32  `json:"value"`
	Description string `json:"description"`
}

// handleWebSocket upgrades to WebSocket and streams records to the client.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	records := s.hub.Subscribe()
	defer s.hub.Unsubscribe(records)

	// Read pump — detect client disconnect.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Write pump — send records as JSON.
	for {
		select {
		case <-gone:
			return
		case rec, ok := <-records:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "monitor stopped"))
				return
			}
			msg := wsRecord{
				Timestamp:   rec.Timestamp.Format(time.RFC3339),
				Kind:        string(rec.Kind),
				Key:         rec.Key,
				Value:       int32(rec.Value),
				Description: rec.Description,
			}
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
