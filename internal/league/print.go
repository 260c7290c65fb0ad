// internal/league/print.go
package league

import (
	"fmt"
	"io"
	"strings"
)

// PrintTable writes a fixed-width standings table.
func PrintTable(w io.Writer, label string, table []TeamStanding) {
	fmt.Fprintln(w, label)
	fmt.Fprintf(w, "%3s %-22s %3s %3s %3s %3s %3s %3s %3s %4s %4s %4s  %s\n",
		"#", "Team", "GP", "W", "OTW", "D", "OTL", "L", "GF", "GA", "GD", "Pts", "Form")
	for _, e := range table {
		fmt.Fprintf(w, "%3d %-22s %3d %3d %3d %3d %3d %3d %3d %4d %4d %4d  %s\n",
			e.TablePosition,
			e.Team,
			e.Games,
			e.Win,
			e.OTWin,
			e.Draw,
			e.OTLoss,
			e.Lost,
			e.Scored,
			e.Conceded,
			e.GoalDifference,
			e.Points,
			formString(e.Form),
		)
	}
}

// PrintDistribution writes one line per season; undefined values print as "-".
func PrintDistribution(w io.Writer, label string, rows []SeasonDistribution) {
	fmt.Fprintln(w, label)
	fmt.Fprintf(w, "%-8s %5s %4s %4s %6s %7s %6s %6s %7s\n",
		"Season", "Teams", "Min", "Max", "Spread", "Median", "Std", "Top6", "Top12")
	for _, d := range rows {
		fmt.Fprintf(w, "%-8s %5d %4d %4d %6d %7.1f %6s %6s %7s\n",
			d.Season, d.Teams, d.Min, d.Max, d.Spread, d.Median,
			dash(d.StdDev), dash(d.Top6Limit), dash(d.Top12Limit))
	}
}

func formString(tokens []FormToken) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}

func dash(n NullFloat) string {
	if !n.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f", n.Float64)
}
