// Package ingest reads team game records from CSV and XLSX exports.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/xuri/excelize/v2"
)

// Columns is the header every export carries, in canonical order.
var Columns = []string{
	"game_id", "team", "opponent", "league", "season", "matchday", "date", "h_a",
	"result", "score_team", "score_opponent", "points", "spectators",
}

var required = []string{"team", "opponent", "league", "season", "matchday", "date", "h_a"}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// RowError reports a bad data row; Row is 1-based and counts the header.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Parser turns raw file bytes into records.
type Parser interface {
	Parse(data []byte) ([]league.GameRecord, error)
}

// ParserFor picks a parser by file extension.
func ParserFor(filename string, scheme league.PointScheme) (Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return &CSVParser{Scheme: scheme}, nil
	case ".xlsx":
		return &XLSXParser{Scheme: scheme}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile reads path with the parser matching its extension.
func LoadFile(path string, scheme league.PointScheme) ([]league.GameRecord, error) {
	p, err := ParserFor(path, scheme)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	games, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return games, nil
}

// CSVParser reads comma separated exports with a header row.
type CSVParser struct {
	Scheme league.PointScheme
}

func (p *CSVParser) Parse(data []byte) ([]league.GameRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return decodeRows(rows, p.Scheme)
}

// XLSXParser reads the first sheet of a workbook.
type XLSXParser struct {
	Scheme league.PointScheme
}

func (p *XLSXParser) Parse(data []byte) ([]league.GameRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return decodeRows(rows, p.Scheme)
}

func decodeRows(rows [][]string, scheme league.PointScheme) ([]league.GameRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	index := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	games := make([]league.GameRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		g, err := decodeRow(row, index, scheme)
		if err == nil {
			err = g.Validate()
		}
		if err != nil {
			return nil, &RowError{Row: i + 2, Err: err}
		}
		games = append(games, g)
	}
	return games, nil
}

func decodeRow(row []string, index map[string]int, scheme league.PointScheme) (league.GameRecord, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	g := league.GameRecord{
		GameID:   cell("game_id"),
		Team:     cell("team"),
		Opponent: cell("opponent"),
		League:   cell("league"),
		Season:   cell("season"),
		HomeAway: league.HomeAway(strings.ToLower(cell("h_a"))),
		Result:   league.Result(strings.ToLower(cell("result"))),
	}
	var err error
	if g.Matchday, err = atoi(cell("matchday"), "matchday"); err != nil {
		return g, err
	}
	if g.Date, err = parseDate(cell("date")); err != nil {
		return g, err
	}
	played := g.GameID != "" || g.Result != ""
	for _, col := range []string{"score_team", "score_opponent"} {
		if played && cell(col) == "" {
			return g, fmt.Errorf("%w: %s is required on a played game", league.ErrInvalidRecord, col)
		}
	}
	if g.ScoreTeam, err = atoi(cell("score_team"), "score_team"); err != nil {
		return g, err
	}
	if g.ScoreOpponent, err = atoi(cell("score_opponent"), "score_opponent"); err != nil {
		return g, err
	}

	if pts := cell("points"); pts != "" {
		if g.Points, err = atoi(pts, "points"); err != nil {
			return g, err
		}
	} else if g.Played() {
		g.Points = scheme.Award(g.Result)
	}

	if s := cell("spectators"); s != "" {
		n, err := atoi(s, "spectators")
		if err != nil {
			return g, err
		}
		g.Spectators = &n
	}
	return g, nil
}

// atoi treats an empty cell as zero; callers reject blank scores on played
// rows first. Spreadsheet exports often write integers as "12.0".
func atoi(s, col string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%s: %q is not an integer", col, s)
	}
	return int(f), nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date: cannot parse %q", s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes games with the canonical header.
func WriteCSV(w io.Writer, games []league.GameRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, g := range games {
		spectators := ""
		if g.Spectators != nil {
			spectators = strconv.Itoa(*g.Spectators)
		}
		record := []string{
			g.GameID, g.Team, g.Opponent, g.League, g.Season, strconv.Itoa(g.Matchday),
			g.Date.Format("2006-01-02"), string(g.HomeAway), string(g.Result),
			strconv.Itoa(g.ScoreTeam), strconv.Itoa(g.ScoreOpponent), strconv.Itoa(g.Points), spectators,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
