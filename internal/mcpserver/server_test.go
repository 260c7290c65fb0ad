package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utakatalp/icehockey-dashboard/internal/config"
	"github.com/utakatalp/icehockey-dashboard/internal/dashboard"
	"github.com/utakatalp/icehockey-dashboard/internal/fixtures"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
)

func newTools(t *testing.T) *Tools {
	t.Helper()
	games := fixtures.New(3).League(fixtures.Options{
		League:       "shl",
		Seasons:      []string{"2023/24", "2024/25"},
		Teams:        4,
		UnplayedFrom: 5,
		Scheme:       league.DefaultPointScheme,
	})
	ds, err := league.NewDataset(games)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Tools{svc: dashboard.NewService(ds, config.DashboardConfig{}, logger, nil)}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools(t *testing.T) {
	ctx := context.Background()
	tools := newTools(t)

	res, _, err := tools.Standings(ctx, nil, StandingsArgs{League: "shl", Season: "2024/25"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"table_position": 1`)

	res, _, err = tools.Standings(ctx, nil, StandingsArgs{League: "shl"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "required")

	res, _, err = tools.Standings(ctx, nil, StandingsArgs{League: "shl", Season: "2024/25", Recency: "last3"})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, _, err = tools.Options(ctx, nil, OptionsArgs{})
	require.NoError(t, err)
	assert.Contains(t, text(t, res), `"2024/25"`)

	res, _, err = tools.TeamStats(ctx, nil, TeamArgs{Team: "Nowhere IF"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "unknown team")

	res, _, err = tools.Distribution(ctx, nil, DistributionArgs{League: "shl", Matchday: 0})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "[]", text(t, res), "an unset matchday has no rows")

	res, _, err = tools.Comparison(ctx, nil, ComparisonArgs{League: "shl", Metric: "avg_scored"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"avg_scored"`)
}

func TestServer_ListTools(t *testing.T) {
	ctx := context.Background()
	tools := newTools(t)
	server := NewServer(tools.svc, "test")

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	list, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"options", "standings", "season_trend", "point_distribution", "team_stats", "team_comparison",
	}, names)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "season_trend",
		Arguments: map[string]any{"league": "shl", "season": "2024/25"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"points_cum"`)
}

func TestWithAPIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		key    string
		header map[string]string
		want   int
	}{
		{"disabled", "", nil, http.StatusNoContent},
		{"missing", "secret", nil, http.StatusUnauthorized},
		{"wrong", "secret", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header", "secret", map[string]string{"X-API-Key": "secret"}, http.StatusNoContent},
		{"bearer", "secret", map[string]string{"Authorization": "Bearer secret"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			WithAPIKey(tt.key, ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
