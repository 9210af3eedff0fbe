package fanout

// Realtime event names pushed to subscribed clients.
const (
	EventNewMatch          = "new-match"
	EventMatchUpdated      = "match-updated"
	EventMatchDeleted      = "match-deleted"
	EventAttendanceUpdate  = "attendance-update"
	EventMatchNotification = "match-notification"
	EventJoined            = "joined"
)

// Logical rooms clients join after connecting.
const (
	RoomTeam  = "team"
	RoomAdmin = "admin"
)

// Broadcaster is the push side of the realtime layer. Delivery is best
// effort to currently-open connections; there is no replay.
type Broadcaster interface {
	Broadcast(event string, payload any)
	BroadcastRoom(event, room string, payload any)
}

// Message is the wire format for server-to-client events.
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`

	room string
}

// clientMessage is the wire format for client-to-server control messages.
type clientMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type roomChange struct {
	client *Client
	room   string
	join   bool
}
