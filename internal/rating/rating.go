// Package rating implements the ELO model used to rate doubles players.
package rating

import "math"

// Winner identifies the winning side of a match.
type Winner int

const (
	Tie   Winner = 0
	Team1 Winner = 1
	Team2 Winner = 2
)

func (w Winner) String() string {
	switch w {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	default:
		return "tie"
	}
}

// ExpectedScore is the logistic probability that a side rated ratingA beats a side rated ratingB.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// RatingDelta is the rating change for a side that was expected to score expected and scored actual.
func RatingDelta(k, expected, actual float64) float64 {
	return k * (actual - expected)
}

// KFactor returns the K used for a player with gamesPlayed games behind them.
// It is currently constant; experience-based scaling would plug in here.
func KFactor(gamesPlayed int, baseK float64) float64 {
	return baseK
}

// DetermineWinner compares two scores.
func DetermineWinner(score1, score2 int) Winner {
	switch {
	case score1 > score2:
		return Team1
	case score2 > score1:
		return Team2
	default:
		return Tie
	}
}

// NormalizeScore returns team 1's actual score in [0,1]. Team 2's is the complement.
// With pointDiff disabled the result is 1 or 0. With it enabled the result lies strictly
// between 0.5 and 1 (or 0 and 0.5) and grows with the margin; marginScale is the margin at
// which roughly three quarters of the available swing is reached.
func NormalizeScore(score1, score2 int, winner Winner, pointDiff bool, marginScale float64) float64 {
	if winner == Tie {
		return 0.5
	}
	if !pointDiff {
		if winner == Team1 {
			return 1.0
		}
		return 0.0
	}

	if marginScale <= 0 {
		marginScale = DefaultMarginScale
	}
	margin := math.Abs(float64(score1 - score2))
	if margin == 0 {
		// Winner was decided on something other than points; count the minimum margin.
		margin = 1
	}
	soft := 0.5 + 0.5*math.Tanh(margin/marginScale)
	soft = clamp(soft, math.Nextafter(0.5, 1), math.Nextafter(1, 0))
	if winner == Team1 {
		return soft
	}
	return 1.0 - soft
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
