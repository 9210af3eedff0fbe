package matches

import "sync"

// MockStore is a mock implementation of the MatchStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc           func(createdBy int64, input NewMatch) (Match, error)
	UpdateFunc           func(matchID int64, update MatchUpdate) (Match, error)
	DeleteFunc           func(matchID int64) error
	GetFunc              func(matchID int64) (Match, error)
	ListAllFunc          func() ([]Summary, error)
	ListUpcomingFunc     func(playerID int64) ([]Summary, error)
	DetailFunc           func(matchID int64) (Detail, error)
	MarkAttendanceFunc   func(matchID, playerID int64, status string) (AttendanceCounts, error)
	AttendanceCountsFunc func(matchID int64) (AttendanceCounts, error)
	RosterFunc           func(matchID int64) (Roster, error)
	UpsertStatsFunc      func(matchID int64, input StatsInput) error
	DashboardFunc        func() (DashboardStats, error)

	// Call records
	CreateCalls         []NewMatch
	DeleteCalls         []int64
	MarkAttendanceCalls []struct {
		MatchID  int64
		PlayerID int64
		Status   string
	}
	UpsertStatsCalls []struct {
		MatchID int64
		Input   StatsInput
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(createdBy int64, input NewMatch) (Match, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, input)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(createdBy, input)
	}
	return Match{}, nil
}

func (m *MockStore) Update(matchID int64, update MatchUpdate) (Match, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(matchID, update)
	}
	return Match{}, nil
}

func (m *MockStore) Delete(matchID int64) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, matchID)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(matchID)
	}
	return nil
}

func (m *MockStore) Get(matchID int64) (Match, error) {
	if m.GetFunc != nil {
		return m.GetFunc(matchID)
	}
	return Match{}, nil
}

func (m *MockStore) ListAll() ([]Summary, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc()
	}
	return nil, nil
}

func (m *MockStore) ListUpcoming(playerID int64) ([]Summary, error) {
	if m.ListUpcomingFunc != nil {
		return m.ListUpcomingFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) Detail(matchID int64) (Detail, error) {
	if m.DetailFunc != nil {
		return m.DetailFunc(matchID)
	}
	return Detail{}, nil
}

func (m *MockStore) MarkAttendance(matchID, playerID int64, status string) (AttendanceCounts, error) {
	m.mu.Lock()
	m.MarkAttendanceCalls = append(m.MarkAttendanceCalls, struct {
		MatchID  int64
		PlayerID int64
		Status   string
	}{matchID, playerID, status})
	m.mu.Unlock()
	if m.MarkAttendanceFunc != nil {
		return m.MarkAttendanceFunc(matchID, playerID, status)
	}
	return AttendanceCounts{}, nil
}

func (m *MockStore) AttendanceCounts(matchID int64) (AttendanceCounts, error) {
	if m.AttendanceCountsFunc != nil {
		return m.AttendanceCountsFunc(matchID)
	}
	return AttendanceCounts{}, nil
}

func (m *MockStore) Roster(matchID int64) (Roster, error) {
	if m.RosterFunc != nil {
		return m.RosterFunc(matchID)
	}
	return Roster{}, nil
}

func (m *MockStore) UpsertStats(matchID int64, input StatsInput) error {
	m.mu.Lock()
	m.UpsertStatsCalls = append(m.UpsertStatsCalls, struct {
		MatchID int64
		Input   StatsInput
	}{matchID, input})
	m.mu.Unlock()
	if m.UpsertStatsFunc != nil {
		return m.UpsertStatsFunc(matchID, input)
	}
	return nil
}

func (m *MockStore) Dashboard() (DashboardStats, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc()
	}
	return DashboardStats{}, nil
}
