// Package api serves the dashboard over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/utakatalp/icehockey-dashboard/internal/chart"
	"github.com/utakatalp/icehockey-dashboard/internal/config"
	"github.com/utakatalp/icehockey-dashboard/internal/dashboard"
	"github.com/utakatalp/icehockey-dashboard/internal/export"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/utakatalp/icehockey-dashboard/internal/metrics"
	"golang.org/x/time/rate"
)

// Deps is what the router serves. Metrics and MCP are optional.
type Deps struct {
	Service *dashboard.Service
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	HTTP    config.HTTPConfig
	MCP     http.Handler
	MCPPath string
	Palette chart.Palette
}

type handlers struct {
	svc     *dashboard.Service
	logger  *slog.Logger
	palette chart.Palette
}

// NewRouter wires every route onto a gorilla/mux router.
func NewRouter(d Deps) *mux.Router {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Palette == (chart.Palette{}) {
		d.Palette = chart.DefaultPalette
	}
	h := &handlers{svc: d.Service, logger: d.Logger, palette: d.Palette}

	router := mux.NewRouter()
	router.Use(LoggingMiddleware(d.Logger, d.Metrics))

	router.HandleFunc("/", h.page).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if d.Metrics != nil {
		router.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}

	apiRouter := router.PathPrefix("/api").Subrouter()
	if d.HTTP.RateLimit > 0 {
		apiRouter.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(d.HTTP.RateLimit), max(1, d.HTTP.Burst))))
	}
	apiRouter.HandleFunc("/options", h.options).Methods(http.MethodGet)
	apiRouter.HandleFunc("/standings", h.standings).Methods(http.MethodGet)
	apiRouter.HandleFunc("/standings.xlsx", h.standingsXLSX).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trend", h.trend).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trend.png", h.trendPNG).Methods(http.MethodGet)
	apiRouter.HandleFunc("/distribution", h.distribution).Methods(http.MethodGet)
	apiRouter.HandleFunc("/distribution.png", h.distributionPNG).Methods(http.MethodGet)
	apiRouter.HandleFunc("/distribution.xlsx", h.distributionXLSX).Methods(http.MethodGet)
	apiRouter.HandleFunc("/teams/{team}", h.team).Methods(http.MethodGet)
	apiRouter.HandleFunc("/comparison", h.comparison).Methods(http.MethodGet)
	apiRouter.HandleFunc("/comparison.xlsx", h.comparisonXLSX).Methods(http.MethodGet)

	if d.MCP != nil {
		path := d.MCPPath
		if path == "" {
			path = "/mcp"
		}
		router.PathPrefix(path).Handler(d.MCP)
	}
	return router
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "games": h.svc.Len()})
}

func (h *handlers) options(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Options(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// standingsQuery reads the filter parameters, defaulting league and season.
func (h *handlers) standingsQuery(r *http.Request) dashboard.StandingsQuery {
	d := h.svc.Defaults()
	q := r.URL.Query()
	return dashboard.StandingsQuery{
		League:   param(q.Get("league"), d.League),
		Season:   param(q.Get("season"), d.Season),
		HomeAway: q.Get("h_a"),
		Recency:  q.Get("recency"),
	}
}

func (h *handlers) standings(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.Standings(r.Context(), h.standingsQuery(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *handlers) standingsXLSX(w http.ResponseWriter, r *http.Request) {
	q := h.standingsQuery(r)
	table, err := h.svc.Standings(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	name := sheetName(q.League + " " + q.Season)
	b, err := export.StandingsWorkbook(name, table)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeXLSX(w, "standings "+name, b)
}

func (h *handlers) trendSnapshots(r *http.Request) ([]league.SeasonPointSnapshot, error) {
	d := h.svc.Defaults()
	q := r.URL.Query()
	return h.svc.Trend(r.Context(), param(q.Get("league"), d.League), param(q.Get("season"), d.Season))
}

func (h *handlers) trend(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.trendSnapshots(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (h *handlers) trendPNG(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.trendSnapshots(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := chart.TrendChart(snaps, h.palette)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writePNG(w, b)
}

func (h *handlers) distributionRows(r *http.Request) (string, int, []league.SeasonDistribution, error) {
	d := h.svc.Defaults()
	q := r.URL.Query()
	leagueName := param(q.Get("league"), d.League)
	matchday := d.Matchday
	if raw := q.Get("matchday"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", 0, nil, fmt.Errorf("%w: matchday %q", league.ErrInvalidFilter, raw)
		}
		matchday = n
	}
	rows, err := h.svc.Distribution(r.Context(), leagueName, matchday)
	return leagueName, matchday, rows, err
}

func (h *handlers) distribution(w http.ResponseWriter, r *http.Request) {
	_, _, rows, err := h.distributionRows(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handlers) distributionPNG(w http.ResponseWriter, r *http.Request) {
	_, _, rows, err := h.distributionRows(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := chart.DistributionChart(rows, h.palette)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writePNG(w, b)
}

func (h *handlers) distributionXLSX(w http.ResponseWriter, r *http.Request) {
	leagueName, matchday, rows, err := h.distributionRows(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	name := sheetName(fmt.Sprintf("%s md %d", leagueName, matchday))
	b, err := export.DistributionWorkbook(name, rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeXLSX(w, "distribution "+name, b)
}

func (h *handlers) team(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.TeamStats(r.Context(), mux.Vars(r)["team"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) comparisonTable(r *http.Request) (league.ComparisonTable, error) {
	q := r.URL.Query()
	return h.svc.Comparison(r.Context(), param(q.Get("league"), h.svc.Defaults().League), q.Get("metric"))
}

func (h *handlers) comparison(w http.ResponseWriter, r *http.Request) {
	table, err := h.comparisonTable(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *handlers) comparisonXLSX(w http.ResponseWriter, r *http.Request) {
	table, err := h.comparisonTable(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	name := sheetName(table.League + " " + string(table.Metric))
	b, err := export.ComparisonWorkbook(name, table)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeXLSX(w, "comparison "+name, b)
}

// fail maps service errors onto status codes. Only 500s are logged; the
// logging middleware already records the rest.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, league.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dashboard.ErrUnknownTeam):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Request failed", "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func param(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

var sheetReplacer = strings.NewReplacer("/", "-", `\`, "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-")

// sheetName makes s usable as an xlsx sheet name.
func sheetName(s string) string {
	s = strings.TrimSpace(sheetReplacer.Replace(s))
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	if s == "" {
		return "Sheet1"
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writePNG(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(b)
}

func writeXLSX(w http.ResponseWriter, name string, b []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, strings.ReplaceAll(name, " ", "_")+".xlsx"))
	w.Write(b)
}
