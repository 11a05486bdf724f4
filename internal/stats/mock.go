package stats

import (
	"context"
	"sync"

	"github.com/mauv0809/padel-ratings/internal/club"
)

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of the Store interface for testing.
// Replace calls keep the last snapshot per scope so tests can inspect what would be persisted.
type MockStore struct {
	mu sync.Mutex

	ReplaceGlobalFunc func(snap Snapshot) error
	ReplaceLeagueFunc func(leagueID int64, league Snapshot, seasons map[int64]Snapshot) error
	ReplaceSeasonFunc func(seasonID int64, snap Snapshot) error
	LeaderboardFunc   func(scope club.Scope) ([]PlayerSummary, error)

	Snapshots map[club.Scope]Snapshot

	ReplaceGlobalCalled int
	ReplaceLeagueCalls  []int64
	ReplaceSeasonCalls  []int64
	LeaderboardCalls    []club.Scope
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{Snapshots: make(map[club.Scope]Snapshot)}
}

// Reset clears all call records and stored snapshots.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots = make(map[club.Scope]Snapshot)
	m.ReplaceGlobalCalled = 0
	m.ReplaceLeagueCalls = nil
	m.ReplaceSeasonCalls = nil
	m.LeaderboardCalls = nil
}

// Snapshot returns the last snapshot written for scope.
func (m *MockStore) Snapshot(scope club.Scope) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.Snapshots[scope]
	return snap, ok
}

func (m *MockStore) ReplaceGlobal(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceGlobalCalled++
	if m.ReplaceGlobalFunc != nil {
		if err := m.ReplaceGlobalFunc(snap); err != nil {
			return err
		}
	}
	m.Snapshots[club.GlobalScope()] = snap
	return nil
}

func (m *MockStore) ReplaceLeague(ctx context.Context, leagueID int64, league Snapshot, seasons map[int64]Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceLeagueCalls = append(m.ReplaceLeagueCalls, leagueID)
	if m.ReplaceLeagueFunc != nil {
		if err := m.ReplaceLeagueFunc(leagueID, league, seasons); err != nil {
			return err
		}
	}
	m.Snapshots[club.LeagueScope(leagueID)] = league
	for id, snap := range seasons {
		m.Snapshots[club.SeasonScope(id)] = snap
	}
	return nil
}

func (m *MockStore) ReplaceSeason(ctx context.Context, seasonID int64, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceSeasonCalls = append(m.ReplaceSeasonCalls, seasonID)
	if m.ReplaceSeasonFunc != nil {
		if err := m.ReplaceSeasonFunc(seasonID, snap); err != nil {
			return err
		}
	}
	m.Snapshots[club.SeasonScope(seasonID)] = snap
	return nil
}

func (m *MockStore) Leaderboard(ctx context.Context, scope club.Scope) ([]PlayerSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaderboardCalls = append(m.LeaderboardCalls, scope)
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(scope)
	}
	if snap, ok := m.Snapshots[scope]; ok {
		return snap.Players, nil
	}
	return []PlayerSummary{}, nil
}

func (m *MockStore) Partnerships(ctx context.Context, scope club.Scope, playerID int64) ([]PartnershipStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterPairs(m.Snapshots[scope].Partnerships, playerID), nil
}

func (m *MockStore) Opponents(ctx context.Context, scope club.Scope, playerID int64) ([]OpponentStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterPairs(m.Snapshots[scope].Opponents, playerID), nil
}

func (m *MockStore) RatingHistory(ctx context.Context, playerID int64) ([]RatingHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := []RatingHistory{}
	for _, h := range m.Snapshots[club.GlobalScope()].RatingHistory {
		if h.PlayerID == playerID {
			history = append(history, h)
		}
	}
	return history, nil
}

func filterPairs(pairs []PairStats, playerID int64) []PairStats {
	out := []PairStats{}
	for _, p := range pairs {
		if p.PlayerID == playerID {
			out = append(out, p)
		}
	}
	return out
}
