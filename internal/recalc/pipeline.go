// Package recalc rebuilds derived statistics for a scope from the authoritative match log.
package recalc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/metrics"
	"github.com/mauv0809/padel-ratings/internal/rating"
	"github.com/mauv0809/padel-ratings/internal/stats"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs full rebuilds. It is not safe to run two rebuilds against the same
// storage concurrently; the queue serialises calls.
type Pipeline struct {
	club    club.ClubStore
	stats   stats.Store
	metrics metrics.Metrics
	model   rating.Model
}

// New creates a Pipeline.
func New(clubStore club.ClubStore, statsStore stats.Store, m metrics.Metrics, model rating.Model) *Pipeline {
	return &Pipeline{
		club:    clubStore,
		stats:   statsStore,
		metrics: m,
		model:   model,
	}
}

// Global rebuilds the global scope, including rating history.
func (p *Pipeline) Global(ctx context.Context) (*Counts, error) {
	start := time.Now()
	scope := club.GlobalScope()

	matches, err := p.club.EligibleMatches(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for %s: %w", scope, err)
	}
	snap, err := stats.Build(p.model, scope, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", scope, err)
	}
	if err := p.stats.ReplaceGlobal(ctx, snap); err != nil {
		return nil, err
	}

	p.observe(scope, snap.MatchCount, start)
	log.Info("Recalculated global stats", "matches", snap.MatchCount, "players", snap.PlayerCount(), "duration", time.Since(start))
	return &Counts{MatchCount: snap.MatchCount, PlayerCount: snap.PlayerCount()}, nil
}

// League rebuilds a league and every one of its seasons. Seasons without eligible
// matches are still rewritten so stale rows are cleared.
func (p *Pipeline) League(ctx context.Context, leagueID int64) (*LeagueResult, error) {
	start := time.Now()
	scope := club.LeagueScope(leagueID)

	if _, err := p.club.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	seasons, err := p.club.SeasonsForLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seasons for %s: %w", scope, err)
	}
	matches, err := p.club.EligibleMatches(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for %s: %w", scope, err)
	}

	bySeason := make(map[int64][]club.Match, len(seasons))
	for _, season := range seasons {
		bySeason[season.ID] = nil
	}
	for _, m := range matches {
		if m.SeasonID == nil {
			continue
		}
		bySeason[*m.SeasonID] = append(bySeason[*m.SeasonID], m)
	}

	var (
		leagueSnap  stats.Snapshot
		seasonSnaps = make(map[int64]stats.Snapshot, len(bySeason))
		mu          sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := stats.Build(p.model, scope, matches)
		if err != nil {
			return fmt.Errorf("failed to aggregate %s: %w", scope, err)
		}
		leagueSnap = snap
		return nil
	})
	for seasonID, seasonMatches := range bySeason {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seasonScope := club.SeasonScope(seasonID)
			snap, err := stats.Build(p.model, seasonScope, seasonMatches)
			if err != nil {
				return fmt.Errorf("failed to aggregate %s: %w", seasonScope, err)
			}
			mu.Lock()
			seasonSnaps[seasonID] = snap
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := p.stats.ReplaceLeague(ctx, leagueID, leagueSnap, seasonSnaps); err != nil {
		return nil, err
	}

	result := &LeagueResult{
		LeagueMatchCount: leagueSnap.MatchCount,
		PlayerCount:      leagueSnap.PlayerCount(),
		SeasonCounts:     make(map[int64]Counts, len(seasonSnaps)),
	}
	for id, snap := range seasonSnaps {
		result.SeasonCounts[id] = Counts{MatchCount: snap.MatchCount, PlayerCount: snap.PlayerCount()}
	}

	p.observe(scope, leagueSnap.MatchCount, start)
	log.Info("Recalculated league stats", "leagueID", leagueID, "matches", leagueSnap.MatchCount,
		"players", leagueSnap.PlayerCount(), "seasons", len(seasonSnaps), "duration", time.Since(start))
	return result, nil
}

// Season rebuilds a single season.
func (p *Pipeline) Season(ctx context.Context, seasonID int64) (*Counts, error) {
	start := time.Now()
	scope := club.SeasonScope(seasonID)

	if _, err := p.club.GetSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	matches, err := p.club.EligibleMatches(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for %s: %w", scope, err)
	}
	snap, err := stats.Build(p.model, scope, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", scope, err)
	}
	if err := p.stats.ReplaceSeason(ctx, seasonID, snap); err != nil {
		return nil, err
	}

	p.observe(scope, snap.MatchCount, start)
	log.Info("Recalculated season stats", "seasonID", seasonID, "matches", snap.MatchCount, "players", snap.PlayerCount(), "duration", time.Since(start))
	return &Counts{MatchCount: snap.MatchCount, PlayerCount: snap.PlayerCount()}, nil
}

func (p *Pipeline) observe(scope club.Scope, matchCount int, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObserveRecalcDuration(string(scope.Kind), time.Since(start).Seconds())
	p.metrics.AddMatchesProcessed(string(scope.Kind), matchCount)
}

// RecalculateGlobal runs Global and discards the counts.
func (p *Pipeline) RecalculateGlobal(ctx context.Context) error {
	_, err := p.Global(ctx)
	return err
}

// RecalculateLeague runs League and discards the counts.
func (p *Pipeline) RecalculateLeague(ctx context.Context, leagueID int64) error {
	_, err := p.League(ctx, leagueID)
	return err
}

// RecalculateSeason runs Season and discards the counts.
func (p *Pipeline) RecalculateSeason(ctx context.Context, seasonID int64) error {
	_, err := p.Season(ctx, seasonID)
	return err
}
