// Package chart renders the trend and distribution views as PNG images.
package chart

import (
	"bytes"
	"math"

	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the chart colours.
type Palette struct {
	Background drawing.Color
	Text       drawing.Color
	Bar        drawing.Color
}

// DefaultPalette is light background, dark text, blue bars.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Text:       drawing.ColorFromHex("333333"),
	Bar:        drawing.ColorFromHex("1f77b4"),
}

const (
	width  = 960
	height = 480
)

// TrendChart draws one line per team with its table position per matchday,
// position 1 at the top.
func TrendChart(snaps []league.SeasonPointSnapshot, palette Palette) ([]byte, error) {
	if len(snaps) == 0 {
		return placeholder("No games played yet", palette)
	}

	var order []string
	byTeam := make(map[string]*chart.ContinuousSeries)
	maxMatchday, teams := 1, 1
	for _, s := range snaps {
		series, ok := byTeam[s.Team]
		if !ok {
			series = &chart.ContinuousSeries{
				Name: s.Team,
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(len(order)),
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    chart.GetDefaultColor(len(order)),
				},
			}
			byTeam[s.Team] = series
			order = append(order, s.Team)
		}
		series.XValues = append(series.XValues, float64(s.Matchday))
		series.YValues = append(series.YValues, float64(s.TablePosition))
		maxMatchday = max(maxMatchday, s.Matchday)
		teams = max(teams, s.TablePosition)
	}

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: palette.Background, Padding: chart.Box{Top: 20, Left: 20, Right: 160, Bottom: 20}},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis: chart.XAxis{
			Name:           "Matchday",
			Style:          chart.Style{FontColor: palette.Text},
			Range:          &chart.ContinuousRange{Min: 0.5, Max: float64(maxMatchday) + 0.5},
			ValueFormatter: intFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Position",
			Style:          chart.Style{FontColor: palette.Text},
			Range:          &chart.ContinuousRange{Min: 0.5, Max: float64(teams) + 0.5, Descending: true},
			ValueFormatter: intFormatter,
		},
	}
	for _, team := range order {
		graph.Series = append(graph.Series, *byTeam[team])
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	return render(graph)
}

// DistributionChart draws the median points per season.
func DistributionChart(rows []league.SeasonDistribution, palette Palette) ([]byte, error) {
	if len(rows) == 0 {
		return placeholder("No seasons to compare", palette)
	}

	top := 1.0
	bars := make([]chart.Value, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, chart.Value{
			Label: r.Season,
			Value: r.Median,
			Style: chart.Style{FillColor: palette.Bar, StrokeColor: palette.Bar},
		})
		top = math.Max(top, float64(r.Max))
	}

	graph := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   max(20, (width-100)/len(rows)/2),
		Background: chart.Style{FillColor: palette.Background, Padding: chart.Box{Top: 40}},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.Style{FontColor: palette.Text},
		YAxis: chart.YAxis{
			Name:           "Median points",
			Style:          chart.Style{FontColor: palette.Text},
			Range:          &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: intFormatter,
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// placeholder renders msg centred on an empty canvas. go-chart refuses to
// render without a visible series, so one is drawn in the background colour.
func placeholder(msg string, palette Palette) ([]byte, error) {
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.XAxis{Style: chart.Hidden(), Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:      chart.YAxis{Style: chart.Hidden(), Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{chart.ContinuousSeries{
			Style:   chart.Style{StrokeColor: palette.Background, StrokeWidth: 1},
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	return render(graph)
}

func render(graph chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func intFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		if f != math.Trunc(f) {
			return ""
		}
		return chart.IntValueFormatter(int(f))
	}
	return chart.IntValueFormatter(v)
}
