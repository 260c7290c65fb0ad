// internal/league/distribution.go
package league

import (
	"math"
	"sort"
)

// SeasonDistribution summarises the cumulative points of all teams of one
// season at a fixed matchday.
type SeasonDistribution struct {
	Season     string    `json:"season"`
	Teams      int       `json:"teams"`
	Min        int       `json:"min"`
	Max        int       `json:"max"`
	Spread     int       `json:"max_min_diff"`
	Median     float64   `json:"median"`
	StdDev     NullFloat `json:"std"`
	Top6Limit  NullFloat `json:"top_6_limit"`
	Top12Limit NullFloat `json:"top_12_limit"`
}

// Distribution groups snapshots by season. StdDev is the sample standard
// deviation (n-1) and is undefined for fewer than two teams. TopK limits are
// the lowest points total still inside the K best, undefined when the season
// has fewer than K teams.
func Distribution(snaps []SeasonPointSnapshot) []SeasonDistribution {
	bySeason := make(map[string][]int)
	for _, s := range snaps {
		bySeason[s.Season] = append(bySeason[s.Season], s.PointsCum)
	}
	seasons := make([]string, 0, len(bySeason))
	for season := range bySeason {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)

	out := make([]SeasonDistribution, 0, len(seasons))
	for _, season := range seasons {
		values := bySeason[season]
		sort.Sort(sort.Reverse(sort.IntSlice(values)))
		d := SeasonDistribution{
			Season:     season,
			Teams:      len(values),
			Max:        values[0],
			Min:        values[len(values)-1],
			Median:     median(values),
			StdDev:     sampleStdDev(values),
			Top6Limit:  topLimit(values, 6),
			Top12Limit: topLimit(values, 12),
		}
		d.Spread = d.Max - d.Min
		out = append(out, d)
	}
	return out
}

// median expects values sorted in either direction.
func median(values []int) float64 {
	n := len(values)
	if n%2 == 1 {
		return float64(values[n/2])
	}
	return float64(values[n/2-1]+values[n/2]) / 2
}

func sampleStdDev(values []int) NullFloat {
	n := len(values)
	if n < 2 {
		return NullFloat{}
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		d := float64(v) - mean
		ss += d * d
	}
	return Float(round2(math.Sqrt(ss / float64(n-1))))
}

// topLimit expects values sorted descending.
func topLimit(values []int, k int) NullFloat {
	if len(values) < k {
		return NullFloat{}
	}
	return Float(float64(values[k-1]))
}
