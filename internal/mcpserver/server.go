// Package mcpserver exposes the dashboard queries as MCP tools.
package mcpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/utakatalp/icehockey-dashboard/internal/dashboard"
)

// OptionsArgs is the input schema for the options tool.
type OptionsArgs struct{}

// StandingsArgs is the input schema for the standings tool.
type StandingsArgs struct {
	League   string `json:"league" jsonschema:"League name, e.g. shl (required)"`
	Season   string `json:"season" jsonschema:"Season, e.g. 2024/25 (required)"`
	HomeAway string `json:"h_a,omitempty" jsonschema:"home, away or total (default total)"`
	Recency  string `json:"recency,omitempty" jsonschema:"all, last5 or last10 (default all)"`
}

// TrendArgs is the input schema for the season_trend tool.
type TrendArgs struct {
	League string `json:"league" jsonschema:"League name (required)"`
	Season string `json:"season" jsonschema:"Season (required)"`
}

// DistributionArgs is the input schema for the point_distribution tool.
type DistributionArgs struct {
	League   string `json:"league" jsonschema:"League name (required)"`
	Matchday int    `json:"matchday" jsonschema:"Matchday the point totals are taken after (required)"`
}

// TeamArgs is the input schema for the team_stats tool.
type TeamArgs struct {
	Team string `json:"team" jsonschema:"Team name exactly as listed by the options tool (required)"`
}

// ComparisonArgs is the input schema for the team_comparison tool.
type ComparisonArgs struct {
	League string `json:"league" jsonschema:"League name (required)"`
	Metric string `json:"metric,omitempty" jsonschema:"avg_points, avg_scored, avg_conceded, avg_spectators, avg_spectators_away, avg_points_home or avg_points_away (default avg_points)"`
}

// Tools holds the handlers; each one is a thin wrapper over the service.
type Tools struct {
	svc *dashboard.Service
}

// NewServer registers every tool on a new MCP server.
func NewServer(svc *dashboard.Service, version string) *mcp.Server {
	t := &Tools{svc: svc}
	server := mcp.NewServer(&mcp.Implementation{Name: "hockeydash", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "options",
		Description: "List leagues, seasons, teams, matchdays and metrics available in the dataset",
	}, t.Options)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "standings",
		Description: "League table for a season, optionally home/away only or over each team's last 5/10 games",
	}, t.Standings)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "season_trend",
		Description: "Table position and cumulative points of every team after each played matchday of a season",
	}, t.Trend)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "point_distribution",
		Description: "Per season summary (min, max, median, std dev, top-6/top-12 limits) of points after a matchday",
	}, t.Distribution)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_stats",
		Description: "Season history, head-to-head records and game list of one team",
	}, t.TeamStats)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_comparison",
		Description: "One metric for every team of a league, by season",
	}, t.Comparison)
	return server
}

func (t *Tools) Options(ctx context.Context, _ *mcp.CallToolRequest, _ OptionsArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.svc.Options(ctx)
	return toolJSON(out, err)
}

func (t *Tools) Standings(ctx context.Context, _ *mcp.CallToolRequest, args StandingsArgs) (*mcp.CallToolResult, any, error) {
	if args.League == "" || args.Season == "" {
		return toolError(fmt.Errorf("league and season are required")), nil, nil
	}
	out, err := t.svc.Standings(ctx, dashboard.StandingsQuery{
		League: args.League, Season: args.Season, HomeAway: args.HomeAway, Recency: args.Recency,
	})
	return toolJSON(out, err)
}

func (t *Tools) Trend(ctx context.Context, _ *mcp.CallToolRequest, args TrendArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.svc.Trend(ctx, args.League, args.Season)
	return toolJSON(out, err)
}

func (t *Tools) Distribution(ctx context.Context, _ *mcp.CallToolRequest, args DistributionArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.svc.Distribution(ctx, args.League, args.Matchday)
	return toolJSON(out, err)
}

func (t *Tools) TeamStats(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.svc.TeamStats(ctx, args.Team)
	return toolJSON(out, err)
}

func (t *Tools) Comparison(ctx context.Context, _ *mcp.CallToolRequest, args ComparisonArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.svc.Comparison(ctx, args.League, args.Metric)
	return toolJSON(out, err)
}

func toolJSON[T any](v T, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

// Handler serves server over streamable HTTP. A non-empty apiKey must be sent
// in X-API-Key or as a bearer token.
func Handler(server *mcp.Server, apiKey string) http.Handler {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
	return WithAPIKey(apiKey, handler)
}

// WithAPIKey rejects requests without the key. An empty key disables the check.
func WithAPIKey(apiKey string, next http.Handler) http.Handler {
	apiKey = strings.TrimSpace(apiKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := strings.TrimSpace(r.Header.Get("X-API-Key"))
		if key == "" {
			if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				key = strings.TrimSpace(authz[7:])
			}
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
