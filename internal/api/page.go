package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/utakatalp/icehockey-dashboard/internal/dashboard"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
)

// pageData is everything the dashboard page renders.
type pageData struct {
	Options dashboard.Options
	Query   dashboard.StandingsQuery
	Table   []league.TeamStanding
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := h.standingsQuery(r)
	table, err := h.svc.Standings(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	templ.Handler(dashboardPage(pageData{Options: opts, Query: q, Table: table})).ServeHTTP(w, r)
}

func dashboardPage(d pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<title>Ice hockey dashboard</title>`+
			`<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css">`+
			`<style>body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse}`+
			`td,th{padding:.25rem .5rem;border-bottom:1px solid #ddd;text-align:right}`+
			`td.team,th.team{text-align:left}.rounded-icon{border:1px solid #333;border-radius:50%;padding:1px}</style>`+
			`</head><body><h1>Ice hockey dashboard</h1>`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, filterForm(d)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, standingsTable(d.Table)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, chartsSection(d)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func filterForm(d pageData) string {
	var b strings.Builder
	b.WriteString(`<form method="get" action="/">`)
	b.WriteString(selectHTML("league", d.Options.Leagues, d.Query.League))
	b.WriteString(selectHTML("season", d.Options.Seasons, d.Query.Season))
	b.WriteString(selectHTML("h_a", d.Options.HomeAway, param(d.Query.HomeAway, string(league.Total))))
	b.WriteString(selectHTML("recency", d.Options.Recency, param(d.Query.Recency, string(league.RecencyAll))))
	b.WriteString(`<button type="submit">Show</button></form>`)
	return b.String()
}

func selectHTML(name string, values []string, selected string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<select name="%s">`, templ.EscapeString(name))
	for _, v := range values {
		sel := ""
		if v == selected {
			sel = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, templ.EscapeString(v), sel, templ.EscapeString(v))
	}
	b.WriteString(`</select>`)
	return b.String()
}

func standingsTable(table []league.TeamStanding) string {
	if len(table) == 0 {
		return `<p class="empty">No games played for this selection.</p>`
	}
	var b strings.Builder
	b.WriteString(`<table id="standings"><thead><tr><th>#</th><th class="team">Team</th>` +
		`<th>GP</th><th>W</th><th>OTW</th><th>D</th><th>OTL</th><th>L</th>` +
		`<th>Goals</th><th>GD</th><th>Pts</th><th>Pts/GP</th><th class="team">Form</th></tr></thead><tbody>`)
	for _, e := range table {
		fmt.Fprintf(&b, `<tr><td>%d</td><td class="team"><a href="/api/teams/%s">%s</a></td>`,
			e.TablePosition, url.PathEscape(e.Team), templ.EscapeString(e.Team))
		fmt.Fprintf(&b, `<td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td>`,
			e.Games, e.Win, e.OTWin, e.Draw, e.OTLoss, e.Lost)
		fmt.Fprintf(&b, `<td>%d:%d</td><td>%s</td><td>%d</td><td>%s</td>`,
			e.Scored, e.Conceded, templ.EscapeString(e.GoalDifferenceText), e.Points, avgCell(e.AvgPoints))
		fmt.Fprintf(&b, `<td class="team">%s</td></tr>`, league.RenderFormHTML(e.Form))
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func avgCell(n league.NullFloat) string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.Float64, 'f', 2, 64)
}

func chartsSection(d pageData) string {
	season := url.Values{"league": {d.Query.League}, "season": {d.Query.Season}}.Encode()
	dist := url.Values{
		"league":   {d.Query.League},
		"matchday": {strconv.Itoa(d.Options.Defaults.Matchday)},
	}.Encode()
	standings := url.Values{
		"league":  {d.Query.League},
		"season":  {d.Query.Season},
		"h_a":     {d.Query.HomeAway},
		"recency": {d.Query.Recency},
	}.Encode()

	var b strings.Builder
	fmt.Fprintf(&b, `<p><a href="/api/standings.xlsx?%s">Download table</a></p>`, templ.EscapeString(standings))
	fmt.Fprintf(&b, `<h2>Season trend</h2><img alt="season trend" src="/api/trend.png?%s">`, templ.EscapeString(season))
	fmt.Fprintf(&b, `<h2>Points after matchday %d</h2><img alt="point distribution" src="/api/distribution.png?%s">`,
		d.Options.Defaults.Matchday, templ.EscapeString(dist))
	fmt.Fprintf(&b, `<p><a href="/api/distribution.xlsx?%s">Download distribution</a></p>`, templ.EscapeString(dist))
	return b.String()
}
