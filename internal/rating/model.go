package rating

const (
	DefaultInitialRating = 1200.0
	DefaultK             = 32.0
	DefaultMarginScale   = 10.0
)

// Model bundles the tunables of a rating run.
type Model struct {
	InitialRating float64
	BaseK         float64
	PointDiff     bool
	MarginScale   float64
}

// DefaultModel returns the discrete (win/loss) model with the default constants.
func DefaultModel() Model {
	return Model{
		InitialRating: DefaultInitialRating,
		BaseK:         DefaultK,
		MarginScale:   DefaultMarginScale,
	}
}

// TeamOutcome is the result of rating one doubles match.
type TeamOutcome struct {
	Winner    Winner
	Expected1 float64
	Expected2 float64
	Actual1   float64
	Actual2   float64
	Delta1    float64
	Delta2    float64
}

// Team is the pre-match state of one side.
type Team struct {
	Rating1 float64
	Rating2 float64
}

// Average is the team rating: the mean of both members' current ratings.
func (t Team) Average() float64 {
	return (t.Rating1 + t.Rating2) / 2
}

// Rate computes both teams' deltas for one match. Both members of a team receive the same
// delta, and team 2's delta is exactly the negation of team 1's.
// minGames is the fewest games any of the four players has on record before this match.
func (m Model) Rate(team1, team2 Team, score1, score2, minGames int) TeamOutcome {
	winner := DetermineWinner(score1, score2)
	k := KFactor(minGames, m.BaseK)

	expected1 := ExpectedScore(team1.Average(), team2.Average())
	actual1 := NormalizeScore(score1, score2, winner, m.PointDiff, m.MarginScale)
	delta1 := RatingDelta(k, expected1, actual1)

	return TeamOutcome{
		Winner:    winner,
		Expected1: expected1,
		Expected2: 1 - expected1,
		Actual1:   actual1,
		Actual2:   1 - actual1,
		Delta1:    delta1,
		Delta2:    -delta1,
	}
}
