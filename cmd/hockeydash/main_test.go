package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeConfig(t *testing.T, dir, kind, key, value string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf("source:\n  kind: %s\n  %s: %s\nobservability:\n  log_level: error\n", kind, key, value)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"hockeydash"}, args...))
	return out.String(), err
}

func TestCLI_CSVSource(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "games.csv")
	cfg := writeConfig(t, dir, "csv", "path", csvPath)

	_, err := run(t, "--config", cfg, "demo", "--csv", csvPath, "--teams", "6", "--season", "2023/24", "--season", "2024/25")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "standings", "--season", "2023/24")
	require.NoError(t, err)
	assert.Contains(t, out, "shl 2023/24")

	out, err = run(t, "--config", cfg, "distribution", "--matchday", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "2024/25")

	xlsx := filepath.Join(dir, "table.xlsx")
	_, err = run(t, "--config", cfg, "export", "--out", xlsx, "--season", "2024/25")
	require.NoError(t, err)
	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Standings")
	require.NoError(t, err)
	assert.Len(t, rows, 7)

	_, err = run(t, "--config", cfg, "export", "--out", xlsx, "--view", "scatter")
	assert.Error(t, err)

	_, err = run(t, "--config", cfg, "standings", "--h_a", "neutral")
	assert.Error(t, err)

	_, err = run(t, "--config", cfg, "migrate")
	assert.Error(t, err, "a csv source has no database")
}

func TestCLI_SQLiteSource(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "hockey.db")
	cfg := writeConfig(t, dir, "sqlite", "dsn", dbPath)

	_, err := run(t, "--config", cfg, "migrate")
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "demo", "--teams", "4", "--seed", "7")
	require.NoError(t, err)

	csvPath := filepath.Join(dir, "extra.csv")
	_, err = run(t, "--config", cfg, "demo", "--csv", csvPath, "--teams", "4", "--seed", "7")
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "import", "--reset", csvPath)
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "standings")
	require.NoError(t, err)
	assert.Contains(t, out, "shl 2024/25")

	_, err = run(t, "--config", cfg, "import")
	assert.Error(t, err)
}
