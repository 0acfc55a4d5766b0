package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRangeRoundTrip(t *testing.T) {
	for _, s := range []string{"09:00-10:30", "00:00-23:59", "14:05-14:05"} {
		r, err := ParseTimeRange(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}
}

func TestTimeRangeDashVariants(t *testing.T) {
	for _, sep := range []string{"-", "–", "—"} {
		r, err := ParseTimeRange("09:00" + sep + "10:00")
		require.NoError(t, err)
		assert.Equal(t, 540, r.StartMin)
		assert.Equal(t, 600, r.EndMin)
	}
}

func TestTimeRangeSubtract(t *testing.T) {
	work, _ := ParseTimeRange("09:00-17:00")
	lunch, _ := ParseTimeRange("12:00-13:00")

	pieces := work.Subtract(lunch)
	require.Len(t, pieces, 2)
	assert.Equal(t, "09:00-12:00", pieces[0].String())
	assert.Equal(t, "13:00-17:00", pieces[1].String())

	// Subtracting a range that covers the whole thing yields nothing.
	all, _ := ParseTimeRange("08:00-18:00")
	assert.Empty(t, work.Subtract(all))

	// Non-overlapping subtraction is a no-op.
	other, _ := ParseTimeRange("18:00-19:00")
	assert.Equal(t, []TimeRange{work}, work.Subtract(other))
}

func TestTimeRangeOverlaps(t *testing.T) {
	a, _ := ParseTimeRange("09:00-10:00")
	b, _ := ParseTimeRange("09:30-11:00")
	c, _ := ParseTimeRange("10:00-11:00")
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
}
