package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveFeed broadcasts per-frame labels and confirmed gesture events to
// WebSocket clients. The pipeline pushes into it; the feed never reads the
// camera or drives detection itself.
type LiveFeed struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveFeed creates a LiveFeed with no connected clients.
func NewLiveFeed() *LiveFeed {
	return &LiveFeed{
		clients: make(map[*websocket.Conn]bool),
	}
}

// frameMessage is sent for every processed frame in active mode.
type frameMessage struct {
	Type      string              `json:"type"`
	Label     gesture.Label       `json:"label"`
	Fingers   gesture.FingerState `json:"fingers"`
	Timestamp int64               `json:"timestamp"`
}

// eventMessage is sent when the debouncer confirms a gesture.
type eventMessage struct {
	Type  string        `json:"type"`
	Label gesture.Label `json:"label"`
	At    int64         `json:"at"`
}

// ServeHTTP handles WebSocket upgrade requests.
func (f *LiveFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.clients, conn)
		f.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// PublishFrame broadcasts the per-frame label and finger state.
func (f *LiveFeed) PublishFrame(label gesture.Label, fingers gesture.FingerState) {
	f.broadcast(frameMessage{
		Type:      "frame",
		Label:     label,
		Fingers:   fingers,
		Timestamp: time.Now().UnixMilli(),
	})
}

// PublishEvent broadcasts a confirmed gesture event.
func (f *LiveFeed) PublishEvent(ev gesture.Event) {
	f.broadcast(eventMessage{
		Type:  "event",
		Label: ev.Label,
		At:    ev.At.UnixMilli(),
	})
}

// ClientCount returns the number of connected clients.
func (f *LiveFeed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *LiveFeed) broadcast(message any) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.clients) == 0 {
		return
	}

	msg, err := json.Marshal(message)
	if err != nil {
		return
	}

	for conn := range f.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
