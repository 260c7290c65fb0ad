// internal/league/form.go
package league

import (
	"sort"
	"strings"
)

// FormWindow is the number of recent results shown as form.
const FormWindow = 5

// FormToken is the display token for one result.
type FormToken string

const (
	FormWin    FormToken = "W"
	FormDraw   FormToken = "D"
	FormLost   FormToken = "L"
	FormOTWin  FormToken = "OTW"
	FormOTLoss FormToken = "OTL"
)

var formTokens = map[Result]FormToken{
	ResultWin:    FormWin,
	ResultDraw:   FormDraw,
	ResultLost:   FormLost,
	ResultOTWin:  FormOTWin,
	ResultOTLoss: FormOTLoss,
}

// EncodeForm maps results, oldest first, to display tokens. Unknown results
// become empty tokens.
func EncodeForm(results []Result) []FormToken {
	out := make([]FormToken, len(results))
	for i, r := range results {
		out[i] = formTokens[r]
	}
	return out
}

// RollingForm returns, for each game of one team in chronological order, the
// results of the trailing window ending at that game.
func RollingForm(games []GameRecord) [][]Result {
	out := make([][]Result, len(games))
	for i := range games {
		start := max(0, i-(FormWindow-1))
		w := make([]Result, 0, i-start+1)
		for _, g := range games[start : i+1] {
			w = append(w, g.Result)
		}
		out[i] = w
	}
	return out
}

// chronological sorts a team's games by date, then matchday.
func chronological(games []GameRecord) []GameRecord {
	sorted := append([]GameRecord(nil), games...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return later(sorted[j], sorted[i])
	})
	return sorted
}

var formIcons = map[FormToken]string{
	FormWin:    `<i class="fas fa-check-circle" style="color: green;"></i>`,
	FormDraw:   `<i class="fas fa-minus-circle" style="color: darkblue;"></i>`,
	FormLost:   `<i class="fas fa-times-circle" style="color: red;"></i>`,
	FormOTWin:  `<i class="fas fa-check-circle" style="color: yellowgreen;"></i>`,
	FormOTLoss: `<i class="fas fa-times-circle" style="color: orange;"></i>`,
}

// RenderFormHTML renders tokens as icons with the newest one highlighted.
func RenderFormHTML(tokens []FormToken) string {
	if len(tokens) == 0 {
		return ""
	}
	icons := make([]string, len(tokens))
	for i, t := range tokens {
		icons[i] = formIcons[t]
	}
	last := len(icons) - 1
	icons[last] = `<span class="rounded-icon">` + icons[last] + `</span>`
	return strings.Join(icons, " ")
}
