package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/xuri/excelize/v2"
)

func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestStandingsWorkbook(t *testing.T) {
	table := []league.TeamStanding{{
		TablePosition: 1, Team: "Luleå HF", Games: 5, Points: 12, Win: 4, Lost: 1,
		Scored: 15, Conceded: 7, GoalDifference: 8,
		AvgPoints: league.Float(2.4), AvgScored: league.Float(3), AvgConceded: league.Float(1.4),
		Form: []league.FormToken{league.FormWin, league.FormWin, league.FormLost, league.FormWin, league.FormWin},
	}}
	data, err := StandingsWorkbook("shl 2024-25", table)
	require.NoError(t, err)

	rows := readSheet(t, data, "shl 2024-25")
	require.Len(t, rows, 2)
	assert.Equal(t, "Team", rows[0][1])
	assert.Equal(t, "Luleå HF", rows[1][1])
	assert.Equal(t, "12", rows[1][11])
	assert.Equal(t, "2.4", rows[1][12])
	assert.Equal(t, "W W L W W", rows[1][15])
}

func TestDistributionWorkbook_BlankUndefined(t *testing.T) {
	dist := []league.SeasonDistribution{{
		Season: "2024/25", Teams: 4, Min: 4, Max: 10, Spread: 6, Median: 7,
		StdDev: league.Float(2.58),
	}}
	data, err := DistributionWorkbook("", dist)
	require.NoError(t, err)

	rows := readSheet(t, data, "Sheet1")
	require.Len(t, rows, 2)
	assert.Equal(t, "2.58", rows[1][6])
	// trailing blank cells are dropped by GetRows
	assert.Len(t, rows[1], 7)
}

func TestComparisonWorkbook(t *testing.T) {
	table := league.ComparisonTable{
		League: "shl", Metric: league.MetricAvgPoints,
		Seasons: []string{"2023/24", "2024/25"},
		Rows: []league.ComparisonRow{
			{Team: "A", Values: []league.NullFloat{{}, league.Float(1.5)}},
		},
	}
	data, err := ComparisonWorkbook("avg_points", table)
	require.NoError(t, err)
	rows := readSheet(t, data, "avg_points")
	assert.Equal(t, []string{"Team", "2023/24", "2024/25"}, rows[0])
	assert.Equal(t, []string{"A", "", "1.5"}, rows[1])
}
