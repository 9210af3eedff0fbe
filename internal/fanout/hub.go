package fanout

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ijlaln/footycount-app/internal/metrics"
)

var _ Broadcaster = (*Hub)(nil)

// Hub tracks connected websocket clients and fans events out to them.
// Client room membership is mutated only inside Run, which serializes it
// against broadcasts.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	rooms      chan roomChange
	metrics    metrics.Metrics
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub(metricsSvc metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(chan roomChange),
		metrics:    metricsSvc,
	}
}

// Run processes register/unregister/broadcast events until the process
// exits. It must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.SetConnectedClients(float64(len(h.clients)))
			log.Info("Websocket client registered", "clientID", client.id, "total", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.metrics.SetConnectedClients(float64(len(h.clients)))
			log.Info("Websocket client unregistered", "clientID", client.id, "total", len(h.clients))

		case change := <-h.rooms:
			if change.join {
				change.client.joinRoom(change.room)
				change.client.enqueue(marshalMessage(&Message{Event: EventJoined, Payload: change.room}))
				log.Debug("Client joined room", "clientID", change.client.id, "room", change.room)
			} else {
				change.client.leaveRoom(change.room)
				log.Debug("Client left room", "clientID", change.client.id, "room", change.room)
			}

		case message := <-h.broadcast:
			data := marshalMessage(message)
			h.mu.RLock()
			for client := range h.clients {
				if !client.shouldReceive(message) {
					continue
				}
				if !client.enqueue(data) {
					// Slow client; drop it rather than block the hub.
					h.mu.RUnlock()
					h.mu.Lock()
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast delivers an event to every connected client.
func (h *Hub) Broadcast(event string, payload any) {
	h.broadcast <- &Message{Event: event, Payload: payload}
}

// BroadcastRoom delivers an event only to clients that joined the room.
func (h *Hub) BroadcastRoom(event, room string, payload any) {
	h.broadcast <- &Message{Event: event, Payload: payload, room: room}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST surface carries the authenticated state; the socket is a
	// best-effort notification channel open to any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a websocket connection and attaches
// the client to the hub.
func (h *Hub) ServeWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Websocket upgrade failed", "error", err)
			return
		}
		client := newClient(h, conn)
		h.register <- client

		go client.writePump()
		go client.readPump()
	}
}

func marshalMessage(message *Message) []byte {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error("Failed to marshal fanout message", "error", err, "event", message.Event)
		return []byte("{}")
	}
	return data
}
