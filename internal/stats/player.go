package stats

// PlayerStats accumulates one player's results during a single run.
type PlayerStats struct {
	PlayerID       int64
	Rating         float64
	GameCount      int
	WinCount       int
	TotalPointDiff int

	GamesWith     map[int64]int
	WinsWith      map[int64]int
	PointDiffWith map[int64]int

	GamesAgainst     map[int64]int
	WinsAgainst      map[int64]int
	PointDiffAgainst map[int64]int

	Trajectory []TrajectoryPoint
}

// NewPlayerStats creates a player with no games at the given rating.
func NewPlayerStats(playerID int64, initialRating float64) *PlayerStats {
	return &PlayerStats{
		PlayerID:         playerID,
		Rating:           initialRating,
		GamesWith:        make(map[int64]int),
		WinsWith:         make(map[int64]int),
		PointDiffWith:    make(map[int64]int),
		GamesAgainst:     make(map[int64]int),
		WinsAgainst:      make(map[int64]int),
		PointDiffAgainst: make(map[int64]int),
	}
}

// WinRate is wins over games, or 0 without games.
func (p *PlayerStats) WinRate() float64 {
	return ratio(p.WinCount, p.GameCount)
}

// AvgPointDiff is the mean signed margin per game.
func (p *PlayerStats) AvgPointDiff() float64 {
	return ratio(p.TotalPointDiff, p.GameCount)
}

// Points awards 3 per win and 1 per other game.
func (p *PlayerStats) Points() int {
	return points(p.WinCount, p.GameCount)
}

// Summary converts the running totals into a persisted summary row.
func (p *PlayerStats) Summary() PlayerSummary {
	return PlayerSummary{
		PlayerID:      p.PlayerID,
		CurrentRating: p.Rating,
		Games:         p.GameCount,
		Wins:          p.WinCount,
		Points:        p.Points(),
		WinRate:       p.WinRate(),
		AvgPointDiff:  p.AvgPointDiff(),
	}
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func points(wins, games int) int {
	return wins*3 + (games-wins)*1
}

func pairStats(playerID, otherID int64, games, wins, pointDiff int) PairStats {
	return PairStats{
		PlayerID:      playerID,
		OtherPlayerID: otherID,
		Games:         games,
		Wins:          wins,
		Points:        points(wins, games),
		WinRate:       ratio(wins, games),
		AvgPointDiff:  ratio(pointDiff, games),
	}
}
