package rating

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayplan/planner/internal/entities"
)

func TestRateGoodByMajority(t *testing.T) {
	assert.Equal(t, entities.RatingGood, Rate(2, 3, "", false))
}

func TestRateGoodByTwoOrMore(t *testing.T) {
	assert.Equal(t, entities.RatingGood, Rate(2, 10, "", false))
}

func TestRateGoodByAnyTimed(t *testing.T) {
	assert.Equal(t, entities.RatingGood, Rate(1, 10, "", true))
}

func TestRateFairByOneDone(t *testing.T) {
	assert.Equal(t, entities.RatingFair, Rate(1, 10, "", false))
}

func TestRateFairByLongReflection(t *testing.T) {
	assert.Equal(t, entities.RatingFair, Rate(0, 3, strings.Repeat("x", 35), false))
}

func TestRateBad(t *testing.T) {
	assert.Equal(t, entities.RatingBad, Rate(0, 3, "short", false))
}

func TestRateEmptyPlan(t *testing.T) {
	// total=0: half = max(1, 0/2) = 1, so done>=half only with done>=1.
	assert.Equal(t, entities.RatingFair, Rate(0, 0, strings.Repeat("x", 35), false))
	assert.Equal(t, entities.RatingBad, Rate(0, 0, "", false))
}

func TestStreakCounts(t *testing.T) {
	assert.True(t, StreakCounts(1, "", false))
	assert.True(t, StreakCounts(0, strings.Repeat("x", 30), false))
	assert.True(t, StreakCounts(0, "", true))
	assert.False(t, StreakCounts(0, "short", false))
}

func TestSummarizeContainsRatingTag(t *testing.T) {
	s := Summarize("2026-07-31", entities.RatingGood, []string{"write paper"}, 120, "")
	assert.Contains(t, s, "[Good]")
	assert.Contains(t, s, "2026-07-31")
}
