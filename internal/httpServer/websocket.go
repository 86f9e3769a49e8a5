package httpServer

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/screenrec/screenrec/internal/logging"
	"github.com/screenrec/screenrec/internal/status"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsHub fans recorder status messages out to every connected browser.
type wsHub struct {
	log *logging.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    status.Message
}

func newWsHub(log *logging.Logger) *wsHub {
	return &wsHub{
		log:     log,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Broadcast sends a status message to all clients and remembers it for the
// next page render. Registered as a sink on the status notifier.
func (s *Server) Broadcast(msg status.Message) {
	s.hub.broadcast(msg)
}

func (h *wsHub) broadcast(msg status.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = msg
	for client := range h.clients {
		if err := client.WriteJSON(msg); err != nil {
			h.log.Warning.Printf("dropping websocket client: %v", err)
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *wsHub) lastStatus() (code, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last.Code, h.last.Text
}

// handleWebSocket upgrades the connection and holds it until the browser
// leaves. New clients get the current status right away.
func (h *wsHub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	if h.last.Text != "" {
		if err := conn.WriteJSON(h.last); err != nil {
			h.log.Warning.Printf("initial status not sent: %v", err)
		}
	}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
