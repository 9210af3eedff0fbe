package fanout

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one connected websocket peer.
type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:    uuid.New().String(),
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, 64),
		rooms: make(map[string]bool),
	}
}

// enqueue offers data to the client's send buffer without blocking.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// joinRoom and leaveRoom are called from the hub's Run loop only.
func (c *Client) joinRoom(room string)  { c.rooms[room] = true }
func (c *Client) leaveRoom(room string) { delete(c.rooms, room) }

// shouldReceive reports whether the client is subscribed to the message's
// room. Messages without a room go to everyone.
func (c *Client) shouldReceive(message *Message) bool {
	if message.room == "" {
		return true
	}
	return c.rooms[message.room]
}

// readPump consumes client control messages until the connection closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Websocket read error", "clientID", c.id, "error", err)
			}
			break
		}
		c.handleMessage(data)
	}
}

// writePump drains the send buffer to the connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		data, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error("Failed to unmarshal client message", "clientID", c.id, "error", err)
		return
	}

	switch msg.Type {
	case "join-room":
		if msg.Room != "" {
			c.hub.rooms <- roomChange{client: c, room: msg.Room, join: true}
		}
	case "leave-room":
		if msg.Room != "" {
			c.hub.rooms <- roomChange{client: c, room: msg.Room, join: false}
		}
	}
}
