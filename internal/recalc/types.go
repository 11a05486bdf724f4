package recalc

// Counts summarises one rebuilt scope.
type Counts struct {
	MatchCount  int `json:"match_count"`
	PlayerCount int `json:"player_count"`
}

// LeagueResult summarises a league rebuild and the season rebuilds it performed.
type LeagueResult struct {
	LeagueMatchCount int              `json:"league_match_count"`
	PlayerCount      int              `json:"player_count"`
	SeasonCounts     map[int64]Counts `json:"season_counts"`
}
