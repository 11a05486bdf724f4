package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScore(t *testing.T) {
	assert.Equal(t, 0.5, ExpectedScore(1200, 1200))
	assert.InDelta(t, 0.909, ExpectedScore(1600, 1200), 0.001)
	assert.Greater(t, ExpectedScore(1300, 1200), 0.5)
	assert.Less(t, ExpectedScore(1100, 1200), 0.5)

	pairs := [][2]float64{{1200, 1200}, {1500, 1100}, {800, 2100}, {1234.5, 1199.25}, {0, 3000}}
	for _, p := range pairs {
		sum := ExpectedScore(p[0], p[1]) + ExpectedScore(p[1], p[0])
		assert.InDelta(t, 1.0, sum, 1e-12, "expected scores for %v should sum to one", p)
	}
}

func TestRatingDelta(t *testing.T) {
	assert.Equal(t, 16.0, RatingDelta(32, 0.5, 1.0))
	assert.Equal(t, -16.0, RatingDelta(32, 0.5, 0.0))
	assert.Equal(t, 0.0, RatingDelta(32, 0.5, 0.5))
}

func TestKFactor_IsConstant(t *testing.T) {
	for _, games := range []int{0, 1, 10, 1000} {
		assert.Equal(t, 24.0, KFactor(games, 24))
	}
}

func TestDetermineWinner(t *testing.T) {
	assert.Equal(t, Team1, DetermineWinner(21, 19))
	assert.Equal(t, Team2, DetermineWinner(15, 21))
	assert.Equal(t, Tie, DetermineWinner(20, 20))
}

func TestNormalizeScore(t *testing.T) {
	t.Run("tie is one half in both modes", func(t *testing.T) {
		assert.Equal(t, 0.5, NormalizeScore(20, 20, Tie, false, 10))
		assert.Equal(t, 0.5, NormalizeScore(20, 20, Tie, true, 10))
	})

	t.Run("discrete mode", func(t *testing.T) {
		assert.Equal(t, 1.0, NormalizeScore(21, 19, Team1, false, 10))
		assert.Equal(t, 0.0, NormalizeScore(19, 21, Team2, false, 10))
	})

	t.Run("point differential mode scales with margin", func(t *testing.T) {
		narrow := NormalizeScore(21, 19, Team1, true, 10)
		blowout := NormalizeScore(21, 3, Team1, true, 10)
		assert.Greater(t, narrow, 0.5)
		assert.Less(t, narrow, 1.0)
		assert.Greater(t, blowout, narrow)
		assert.Less(t, blowout, 1.0)

		loser := NormalizeScore(19, 21, Team2, true, 10)
		assert.InDelta(t, 1-narrow, loser, 1e-12)
		assert.Less(t, loser, 0.5)
		assert.Greater(t, loser, 0.0)
	})

	t.Run("huge margins stay inside the open interval", func(t *testing.T) {
		v := NormalizeScore(1000, 0, Team1, true, 1)
		assert.Less(t, v, 1.0)
		assert.Greater(t, NormalizeScore(0, 1000, Team2, true, 1), 0.0)
	})
}

func TestModelRate(t *testing.T) {
	model := DefaultModel()

	t.Run("equal teams, team one wins", func(t *testing.T) {
		out := model.Rate(Team{1200, 1200}, Team{1200, 1200}, 21, 19, 0)
		assert.Equal(t, Team1, out.Winner)
		assert.Equal(t, 0.5, out.Expected1)
		assert.Equal(t, 1.0, out.Actual1)
		assert.Equal(t, 16.0, out.Delta1)
		assert.Equal(t, -out.Delta1, out.Delta2)
	})

	t.Run("team two delta is exact negation", func(t *testing.T) {
		cases := []struct {
			t1, t2 Team
			s1, s2 int
			diff   bool
		}{
			{Team{1187.3, 1311.9}, Team{1250.1, 1202.7}, 21, 17, false},
			{Team{1000, 1400}, Team{1333.3, 1111.1}, 11, 21, true},
			{Team{1525.25, 1490.5}, Team{1100, 1099.99}, 18, 18, true},
		}
		for _, c := range cases {
			m := model
			m.PointDiff = c.diff
			out := m.Rate(c.t1, c.t2, c.s1, c.s2, 3)
			assert.Equal(t, -out.Delta1, out.Delta2)
			assert.Equal(t, 1-out.Expected1, out.Expected2)
		}
	})

	t.Run("tie between equal teams moves less than one point", func(t *testing.T) {
		out := model.Rate(Team{1300, 1100}, Team{1250, 1150}, 20, 20, 0)
		assert.Equal(t, Tie, out.Winner)
		assert.Equal(t, 0.5, out.Actual1)
		assert.Less(t, out.Delta1, 1.0)
		assert.Greater(t, out.Delta1, -1.0)
	})

	t.Run("upset moves more than expected win", func(t *testing.T) {
		favourite := model.Rate(Team{1400, 1400}, Team{1200, 1200}, 21, 10, 0)
		upset := model.Rate(Team{1400, 1400}, Team{1200, 1200}, 10, 21, 0)
		assert.Less(t, favourite.Delta1, 16.0)
		assert.Greater(t, upset.Delta2, 16.0)
	})
}
