package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"

	"github.com/vamsi260801-bit/nhfs/config"
	"github.com/vamsi260801-bit/nhfs/domain/models"
	"github.com/vamsi260801-bit/nhfs/explorer"
	"github.com/vamsi260801-bit/nhfs/middleware"
	"github.com/vamsi260801-bit/nhfs/plot"
	"github.com/vamsi260801-bit/nhfs/report"
)

const (
	msgNoSelectionData = "No data available for selected filters."
	msgNoChartData     = "No data to display."
)

type webHandler struct {
	ex     *explorer.Explorer
	charts *cache.Cache // nil when chart caching is off
}

// newWebHandler caches rendered charts for chartTTL. A zero or negative TTL
// turns the cache off.
func newWebHandler(ex *explorer.Explorer, chartTTL time.Duration) *webHandler {
	h := &webHandler{ex: ex}
	if chartTTL > 0 {
		h.charts = cache.New(chartTTL, 2*chartTTL)
	}
	return h
}

func newRouter(h *webHandler, cfg *config.Config) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/", h.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/charts", h.handleCharts).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/domains", h.handleDomains).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", h.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/charts/trend.png", h.handleTrendPNG).Methods(http.MethodGet)
	api.HandleFunc("/charts/comparison.png", h.handleComparisonPNG).Methods(http.MethodGet)
	api.HandleFunc("/export.xlsx", h.handleExportXLSX).Methods(http.MethodGet)
	api.HandleFunc("/table.md", h.handleTableMarkdown).Methods(http.MethodGet)
	api.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         86400,
	})
	return c.Handler(r)
}

// selectionFromQuery overlays query parameters on def. A present but empty
// survey parameter selects no survey at all.
func selectionFromQuery(q url.Values, def models.Selection) models.Selection {
	sel := def
	if q.Has("state") {
		sel.Region = q.Get("state")
	}
	if q.Has("area") {
		sel.Area = q.Get("area")
	}
	if q.Has("indicator") {
		sel.Indicator = q.Get("indicator")
	}
	if q.Has("compare_survey") {
		sel.ComparisonSurvey = q.Get("compare_survey")
	}
	if q.Has("survey") {
		sel.Surveys = []string{}
		for _, s := range q["survey"] {
			if s != "" {
				sel.Surveys = append(sel.Surveys, s)
			}
		}
	}
	return sel
}

// selectionQuery is the canonical query string of sel.
func selectionQuery(sel models.Selection) string {
	q := url.Values{}
	q.Set("state", sel.Region)
	q.Set("area", sel.Area)
	q.Set("indicator", sel.Indicator)
	q.Set("compare_survey", sel.ComparisonSurvey)
	if len(sel.Surveys) == 0 {
		q.Set("survey", "")
	}
	for _, s := range sel.Surveys {
		q.Add("survey", s)
	}
	return q.Encode()
}

func (h *webHandler) dashboard(r *http.Request) (*models.Dashboard, error) {
	sel := selectionFromQuery(r.URL.Query(), h.ex.DefaultSelection())
	return h.ex.Build(sel)
}

func (h *webHandler) handleDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ex.Domains())
}

func (h *webHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *webHandler) handleTrendPNG(w http.ResponseWriter, r *http.Request) {
	h.servePNG(w, r, "trend", func(d *models.Dashboard) ([]byte, error) {
		return plot.DrawTrendLine(d.Trend, d.TrendTitle)
	})
}

func (h *webHandler) handleComparisonPNG(w http.ResponseWriter, r *http.Request) {
	h.servePNG(w, r, "comparison", func(d *models.Dashboard) ([]byte, error) {
		return plot.DrawComparisonBar(d.Comparison, d.ComparisonTitle)
	})
}

func (h *webHandler) servePNG(w http.ResponseWriter, r *http.Request, kind string, draw func(*models.Dashboard) ([]byte, error)) {
	d, err := h.dashboard(r)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	key := kind + "?" + selectionQuery(d.Selection)
	if h.charts != nil {
		if cached, ok := h.charts.Get(key); ok {
			writePNG(w, cached.([]byte))
			return
		}
	}

	png, err := draw(d)
	if errors.Is(err, plot.ErrNoData) {
		writeError(w, http.StatusNotFound, msgNoChartData)
		return
	}
	if err != nil {
		log.Printf("render %s chart: %v", kind, err)
		writeError(w, http.StatusInternalServerError, "cannot render chart")
		return
	}
	if h.charts != nil {
		h.charts.Set(key, png, cache.DefaultExpiration)
	}
	writePNG(w, png)
}

func (h *webHandler) handleCharts(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := plot.DashboardCharts(&buf, d); err != nil {
		log.Printf("render dashboard charts: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot render charts")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *webHandler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.ExportXLSX(&buf, h.ex.Dataset().Indicators, d.Filtered); err != nil {
		log.Printf("export xlsx: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot export data")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(d.Selection)))
	w.Write(buf.Bytes())
}

func (h *webHandler) handleTableMarkdown(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	md, err := report.RawTable(d.Filtered, h.ex.Dataset().Indicators, report.FormatMarkdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

type healthResponse struct {
	Status     string `json:"status"`
	Source     string `json:"source"`
	Records    int    `json:"records"`
	Indicators int    `json:"indicators"`
}

func (h *webHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := h.ex.Dataset()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Source:     ds.Source,
		Records:    len(ds.Records),
		Indicators: len(ds.Indicators),
	})
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// exportFileName builds an ascii file name such as nfhs_kerala_total.xlsx.
func exportFileName(sel models.Selection) string {
	name := fileSlug(sel.Region + "_" + sel.Area)
	if name == "" {
		return "nfhs.xlsx"
	}
	return "nfhs_" + name + ".xlsx"
}

func writeBuildError(w http.ResponseWriter, err error) {
	if errors.Is(err, explorer.ErrInvalidSelection) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("build dashboard: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg, "code": status})
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
