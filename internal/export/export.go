// Package export writes dashboard tables as xlsx workbooks.
package export

import (
	"fmt"
	"strings"

	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/xuri/excelize/v2"
)

var standingsHeader = []interface{}{
	"Pos", "Team", "GP", "W", "OTW", "D", "OTL", "L", "GF", "GA", "GD", "Pts",
	"Pts/GP", "GF/GP", "GA/GP", "Form",
}

var distributionHeader = []interface{}{
	"Season", "Teams", "Min", "Max", "Max-Min", "Median", "Std dev", "Top 6 limit", "Top 12 limit",
}

// StandingsWorkbook writes table to a single sheet named sheet.
func StandingsWorkbook(sheet string, table []league.TeamStanding) ([]byte, error) {
	rows := make([][]interface{}, 0, len(table))
	for _, e := range table {
		form := make([]string, len(e.Form))
		for i, tok := range e.Form {
			form[i] = string(tok)
		}
		rows = append(rows, []interface{}{
			e.TablePosition, e.Team, e.Games, e.Win, e.OTWin, e.Draw, e.OTLoss, e.Lost,
			e.Scored, e.Conceded, e.GoalDifference, e.Points,
			cell(e.AvgPoints), cell(e.AvgScored), cell(e.AvgConceded), strings.Join(form, " "),
		})
	}
	return workbook(sheet, standingsHeader, rows)
}

// DistributionWorkbook writes one row per season.
func DistributionWorkbook(sheet string, dist []league.SeasonDistribution) ([]byte, error) {
	rows := make([][]interface{}, 0, len(dist))
	for _, d := range dist {
		rows = append(rows, []interface{}{
			d.Season, d.Teams, d.Min, d.Max, d.Spread, d.Median,
			cell(d.StdDev), cell(d.Top6Limit), cell(d.Top12Limit),
		})
	}
	return workbook(sheet, distributionHeader, rows)
}

// ComparisonWorkbook writes the pivot with one column per season.
func ComparisonWorkbook(sheet string, table league.ComparisonTable) ([]byte, error) {
	header := []interface{}{"Team"}
	for _, s := range table.Seasons {
		header = append(header, s)
	}
	rows := make([][]interface{}, 0, len(table.Rows))
	for _, r := range table.Rows {
		row := []interface{}{r.Team}
		for _, v := range r.Values {
			row = append(row, cell(v))
		}
		rows = append(rows, row)
	}
	return workbook(sheet, header, rows)
}

func workbook(sheet string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("naming sheet %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freezing header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cell leaves undefined values blank.
func cell(n league.NullFloat) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Float64
}
