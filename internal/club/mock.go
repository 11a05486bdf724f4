package club

import (
	"context"
	"sync"
)

var _ ClubStore = (*MockStore)(nil)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	EligibleMatchesFunc     func(scope Scope) ([]Match, error)
	GetLeagueFunc           func(leagueID int64) (*League, error)
	GetSeasonFunc           func(seasonID int64) (*Season, error)
	SeasonsForLeagueFunc    func(leagueID int64) ([]Season, error)
	GetSessionFunc          func(sessionID int64) (*Session, error)
	AddPlayerFunc           func(playerID int64, name string) error
	GetAllPlayersFunc       func() ([]Player, error)
	CreateLeagueFunc        func(name string) (int64, error)
	CreateSeasonFunc        func(leagueID int64, name string) (int64, error)
	CreateSessionFunc       func(seasonID *int64, name string, status SessionStatus) (int64, error)
	UpdateSessionStatusFunc func(sessionID int64, status SessionStatus) error
	InsertMatchFunc         func(match *Match) (int64, error)
	DeleteMatchFunc         func(matchID int64) error

	// Call records
	EligibleMatchesCalls []Scope
	GetSessionCalls      []int64
	InsertMatchCalls     []*Match
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EligibleMatchesCalls = nil
	m.GetSessionCalls = nil
	m.InsertMatchCalls = nil
}

func (m *MockStore) EligibleMatches(ctx context.Context, scope Scope) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EligibleMatchesCalls = append(m.EligibleMatchesCalls, scope)
	if m.EligibleMatchesFunc != nil {
		return m.EligibleMatchesFunc(scope)
	}
	return nil, nil
}

func (m *MockStore) GetLeague(ctx context.Context, leagueID int64) (*League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLeagueFunc != nil {
		return m.GetLeagueFunc(leagueID)
	}
	return &League{ID: leagueID}, nil
}

func (m *MockStore) GetSeason(ctx context.Context, seasonID int64) (*Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSeasonFunc != nil {
		return m.GetSeasonFunc(seasonID)
	}
	return &Season{ID: seasonID}, nil
}

func (m *MockStore) SeasonsForLeague(ctx context.Context, leagueID int64) ([]Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SeasonsForLeagueFunc != nil {
		return m.SeasonsForLeagueFunc(leagueID)
	}
	return nil, nil
}

func (m *MockStore) GetSession(ctx context.Context, sessionID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetSessionCalls = append(m.GetSessionCalls, sessionID)
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(sessionID)
	}
	return nil, ErrSessionNotFound
}

func (m *MockStore) AddPlayer(ctx context.Context, playerID int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(playerID, name)
	}
	return nil
}

func (m *MockStore) GetAllPlayers(ctx context.Context) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) CreateLeague(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateLeagueFunc != nil {
		return m.CreateLeagueFunc(name)
	}
	return 0, nil
}

func (m *MockStore) CreateSeason(ctx context.Context, leagueID int64, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateSeasonFunc != nil {
		return m.CreateSeasonFunc(leagueID, name)
	}
	return 0, nil
}

func (m *MockStore) CreateSession(ctx context.Context, seasonID *int64, name string, status SessionStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(seasonID, name, status)
	}
	return 0, nil
}

func (m *MockStore) UpdateSessionStatus(ctx context.Context, sessionID int64, status SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateSessionStatusFunc != nil {
		return m.UpdateSessionStatusFunc(sessionID, status)
	}
	return nil
}

func (m *MockStore) InsertMatch(ctx context.Context, match *Match) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertMatchCalls = append(m.InsertMatchCalls, match)
	if m.InsertMatchFunc != nil {
		return m.InsertMatchFunc(match)
	}
	return match.ID, nil
}

func (m *MockStore) DeleteMatch(ctx context.Context, matchID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(matchID)
	}
	return nil
}
