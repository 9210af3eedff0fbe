package metrics

import "sync"

var _ Metrics = (*MockMetrics)(nil)

// MockMetrics is a mock implementation of the Metrics interface for testing.
type MockMetrics struct {
	mu sync.Mutex

	ReminderTickCount        int
	NotificationsSentCount   int
	NotificationsFailedCount int
	AttendanceMarkCount      int
	MatchesCreatedCount      int
	ConnectedClientsValue    float64
	StartupTime              float64
}

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncReminderTicks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReminderTickCount++
}

func (m *MockMetrics) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotificationsSentCount++
}

func (m *MockMetrics) IncNotificationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotificationsFailedCount++
}

func (m *MockMetrics) IncAttendanceMarks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AttendanceMarkCount++
}

func (m *MockMetrics) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesCreatedCount++
}

func (m *MockMetrics) SetConnectedClients(count float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectedClientsValue = count
}

func (m *MockMetrics) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = seconds
}

// ConnectedClients reads the gauge value under the lock for assertions.
func (m *MockMetrics) ConnectedClients() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ConnectedClientsValue
}

// NotificationsSent reads the counter value under the lock for assertions.
func (m *MockMetrics) NotificationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NotificationsSentCount
}
