package league

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapsFor(season string, points ...int) []SeasonPointSnapshot {
	out := make([]SeasonPointSnapshot, len(points))
	for i, p := range points {
		out[i] = SeasonPointSnapshot{
			Team:      fmt.Sprintf("T%02d", i),
			Season:    season,
			League:    "shl",
			Matchday:  20,
			PointsCum: p,
		}
	}
	return out
}

func TestDistribution(t *testing.T) {
	var snaps []SeasonPointSnapshot
	snaps = append(snaps, snapsFor("2024/25", 4, 10, 6, 8)...)
	snaps = append(snaps, snapsFor("2023/24", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)...)

	rows := Distribution(snaps)
	require.Len(t, rows, 2)

	full := rows[0]
	assert.Equal(t, "2023/24", full.Season)
	assert.Equal(t, 12, full.Teams)
	assert.Equal(t, 1, full.Min)
	assert.Equal(t, 12, full.Max)
	assert.Equal(t, 11, full.Spread)
	assert.Equal(t, 6.5, full.Median)
	assert.Equal(t, Float(3.61), full.StdDev)
	assert.Equal(t, Float(7), full.Top6Limit)
	assert.Equal(t, Float(1), full.Top12Limit)

	small := rows[1]
	assert.Equal(t, "2024/25", small.Season)
	assert.Equal(t, 4, small.Min)
	assert.Equal(t, 10, small.Max)
	assert.Equal(t, 7.0, small.Median)
	assert.Equal(t, Float(2.58), small.StdDev)
	assert.False(t, small.Top6Limit.Valid, "fewer than six teams has no top-6 limit")
	assert.NotEqual(t, Float(0), small.Top6Limit)
	assert.False(t, small.Top12Limit.Valid)
}

func TestDistribution_EdgeCases(t *testing.T) {
	assert.Empty(t, Distribution(nil))

	one := Distribution(snapsFor("2024/25", 9))
	require.Len(t, one, 1)
	assert.False(t, one[0].StdDev.Valid)
	assert.Equal(t, 9.0, one[0].Median)
	assert.Equal(t, 0, one[0].Spread)

	six := Distribution(snapsFor("2024/25", 30, 28, 28, 25, 20, 19, 3))
	require.Len(t, six, 1)
	assert.Equal(t, Float(19), six[0].Top6Limit)
}

func TestDistribution_DoesNotReorderInput(t *testing.T) {
	snaps := snapsFor("2024/25", 1, 5, 3)
	Distribution(snaps)
	assert.Equal(t, []int{1, 5, 3}, []int{snaps[0].PointsCum, snaps[1].PointsCum, snaps[2].PointsCum})
}
