package players

import "sync"

// MockStore is a mock implementation of the PlayerStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	RegisterFunc       func(input NewPlayer) (Player, error)
	RegisterAdminFunc  func(input NewPlayer) (Player, error)
	AuthenticateFunc   func(username, password string) (Player, error)
	ChangePasswordFunc func(playerID int64, currentPassword, newPassword string) error
	UpdateProfileFunc  func(playerID int64, update ProfileUpdate) (Player, error)
	SetAdminFlagFunc   func(playerID int64, isAdmin bool) (Player, error)
	DeleteFunc         func(playerID int64) error
	GetFunc            func(playerID int64) (Player, error)
	ListFunc           func() ([]Listing, error)
	SummaryFunc        func(playerID int64) (Summary, error)
	ActivityFunc       func(playerID int64) ([]Activity, error)
	ProfileFunc        func(playerID int64) (Profile, error)

	// Call records
	RegisterCalls      []NewPlayer
	RegisterAdminCalls []NewPlayer
	AuthenticateCalls  []string
	DeleteCalls        []int64
	SetAdminFlagCalls  []struct {
		PlayerID int64
		IsAdmin  bool
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Register(input NewPlayer) (Player, error) {
	m.mu.Lock()
	m.RegisterCalls = append(m.RegisterCalls, input)
	m.mu.Unlock()
	if m.RegisterFunc != nil {
		return m.RegisterFunc(input)
	}
	return Player{}, nil
}

func (m *MockStore) RegisterAdmin(input NewPlayer) (Player, error) {
	m.mu.Lock()
	m.RegisterAdminCalls = append(m.RegisterAdminCalls, input)
	m.mu.Unlock()
	if m.RegisterAdminFunc != nil {
		return m.RegisterAdminFunc(input)
	}
	return Player{}, nil
}

func (m *MockStore) Authenticate(username, password string) (Player, error) {
	m.mu.Lock()
	m.AuthenticateCalls = append(m.AuthenticateCalls, username)
	m.mu.Unlock()
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(username, password)
	}
	return Player{}, nil
}

func (m *MockStore) ChangePassword(playerID int64, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(playerID, currentPassword, newPassword)
	}
	return nil
}

func (m *MockStore) UpdateProfile(playerID int64, update ProfileUpdate) (Player, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(playerID, update)
	}
	return Player{}, nil
}

func (m *MockStore) SetAdminFlag(playerID int64, isAdmin bool) (Player, error) {
	m.mu.Lock()
	m.SetAdminFlagCalls = append(m.SetAdminFlagCalls, struct {
		PlayerID int64
		IsAdmin  bool
	}{playerID, isAdmin})
	m.mu.Unlock()
	if m.SetAdminFlagFunc != nil {
		return m.SetAdminFlagFunc(playerID, isAdmin)
	}
	return Player{}, nil
}

func (m *MockStore) Delete(playerID int64) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, playerID)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(playerID)
	}
	return nil
}

func (m *MockStore) Get(playerID int64) (Player, error) {
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return Player{}, nil
}

func (m *MockStore) List() ([]Listing, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *MockStore) Summary(playerID int64) (Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(playerID)
	}
	return Summary{}, nil
}

func (m *MockStore) Activity(playerID int64) ([]Activity, error) {
	if m.ActivityFunc != nil {
		return m.ActivityFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) Profile(playerID int64) (Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(playerID)
	}
	return Profile{}, nil
}
