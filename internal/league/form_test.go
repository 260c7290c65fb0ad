package league

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeForm(t *testing.T) {
	tests := []struct {
		name string
		in   []Result
		want []FormToken
	}{
		{"empty", nil, []FormToken{}},
		{"keeps order and duplicates", []Result{ResultWin, ResultWin, ResultLost}, []FormToken{FormWin, FormWin, FormLost}},
		{"overtime", []Result{ResultOTWin, ResultOTLoss}, []FormToken{FormOTWin, FormOTLoss}},
		{"unknown maps to empty", []Result{"forfeit", "", ResultDraw}, []FormToken{"", "", FormDraw}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeForm(tt.in))
		})
	}
}

func TestRollingForm_WindowLength(t *testing.T) {
	var games []GameRecord
	results := []Result{ResultWin, ResultLost, ResultDraw, ResultWin, ResultOTWin, ResultLost, ResultWin, ResultOTLoss}
	for i, r := range results {
		games = append(games, played("X", "Y", i+1, r, 0, 0, 0))
	}

	windows := RollingForm(games)
	require.Len(t, windows, len(games))
	for i, w := range windows {
		assert.Len(t, w, min(i+1, FormWindow), "window %d", i)
		assert.Equal(t, results[i], w[len(w)-1], "window %d must end at its own game", i)
	}
	assert.Equal(t, results[3:], windows[7])
}

func TestRenderFormHTML(t *testing.T) {
	assert.Equal(t, "", RenderFormHTML(nil))

	html := RenderFormHTML([]FormToken{FormWin, FormLost})
	parts := strings.SplitN(html, " <span", 2)
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "fa-check-circle")
	assert.Contains(t, parts[1], `class="rounded-icon"`)
	assert.Contains(t, parts[1], "fa-times-circle")

	assert.Equal(t, `<span class="rounded-icon"></span>`, RenderFormHTML([]FormToken{""}))
}
