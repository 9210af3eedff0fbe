package fanout

import "sync"

var _ Broadcaster = (*MockBroadcaster)(nil)

// MockBroadcaster is a mock implementation of the Broadcaster interface for
// testing. It is safe for concurrent use.
type MockBroadcaster struct {
	mu sync.Mutex

	// Call records
	BroadcastCalls []struct {
		Event   string
		Room    string
		Payload any
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (m *MockBroadcaster) Broadcast(event string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BroadcastCalls = append(m.BroadcastCalls, struct {
		Event   string
		Room    string
		Payload any
	}{Event: event, Payload: payload})
}

func (m *MockBroadcaster) BroadcastRoom(event, room string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BroadcastCalls = append(m.BroadcastCalls, struct {
		Event   string
		Room    string
		Payload any
	}{Event: event, Room: room, Payload: payload})
}

// Events returns the event names broadcast so far, in order.
func (m *MockBroadcaster) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]string, 0, len(m.BroadcastCalls))
	for _, call := range m.BroadcastCalls {
		events = append(events, call.Event)
	}
	return events
}
