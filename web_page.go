package main

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/vamsi260801-bit/nhfs/domain/models"
	"github.com/vamsi260801-bit/nhfs/explorer"
	"github.com/vamsi260801-bit/nhfs/report"
)

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"value":     formatKPIValue,
	"stats":     formatComparisonStats,
	"hasValues": hasTrendValues,
}).Parse(indexHTML))

type indexPage struct {
	Title     string
	Domains   models.FilterDomains
	Selection models.Selection
	Selected  map[string]bool
	Dashboard *models.Dashboard
	Query     template.URL
	Table     template.HTML
	Error     string

	NoSelectionData string
	NoChartData     string
}

func (h *webHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		Title:           "NFHS Dashboard",
		Domains:         h.ex.Domains(),
		NoSelectionData: msgNoSelectionData,
		NoChartData:     msgNoChartData,
	}
	status := http.StatusOK

	sel := selectionFromQuery(r.URL.Query(), h.ex.DefaultSelection())
	d, err := h.ex.Build(sel)
	switch {
	case errors.Is(err, explorer.ErrInvalidSelection):
		status = http.StatusBadRequest
		page.Error = err.Error()
	case err != nil:
		writeBuildError(w, err)
		return
	default:
		page.Dashboard = d
		page.Query = template.URL(selectionQuery(d.Selection))
		table, err := report.RawTable(d.Filtered, h.ex.Dataset().Indicators, report.FormatHTML)
		if err != nil {
			log.Printf("render raw table: %v", err)
		}
		page.Table = template.HTML(table)
	}

	page.Selection = sel
	page.Selected = make(map[string]bool, len(sel.Surveys))
	for _, s := range sel.Surveys {
		page.Selected[s] = true
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		log.Printf("render index: %v", err)
		http.Error(w, "Error rendering dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func formatKPIValue(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// hasTrendValues reports whether the trend chart has at least one point to draw.
func hasTrendValues(points []models.TrendPoint) bool {
	for _, p := range points {
		if p.Value != nil {
			return true
		}
	}
	return false
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 280px; padding: 16px; background: #f4f4f8; min-height: 100vh; }
main { flex: 1; padding: 16px; overflow-x: auto; }
label { display: block; margin-top: 12px; font-weight: bold; }
select { width: 100%; }
.metric { font-size: 2em; margin: 8px 0 24px; }
.error { color: #b00020; }
table { border-collapse: collapse; font-size: 0.85em; }
td, th { border: 1px solid #ccc; padding: 2px 6px; }
</style>
</head>
<body>
<aside>
<h2>Filters</h2>
<form method="get" action="/">
<label for="state">State</label>
<select id="state" name="state">
{{range .Domains.Regions}}<option{{if eq . $.Selection.Region}} selected{{end}}>{{.}}</option>
{{end}}</select>
<label for="survey">Survey</label>
<input type="hidden" name="survey" value="">
<select id="survey" name="survey" multiple size="6">
{{range .Domains.Surveys}}<option{{if index $.Selected .}} selected{{end}}>{{.}}</option>
{{end}}</select>
<label for="area">Area</label>
<select id="area" name="area">
{{range .Domains.Areas}}<option{{if eq . $.Selection.Area}} selected{{end}}>{{.}}</option>
{{end}}</select>
<label for="indicator">Indicator</label>
<select id="indicator" name="indicator">
{{range .Domains.Indicators}}<option{{if eq . $.Selection.Indicator}} selected{{end}}>{{.}}</option>
{{end}}</select>
<label for="compare_survey">Compare states for survey</label>
<select id="compare_survey" name="compare_survey">
{{range .Domains.Surveys}}<option{{if eq . $.Selection.ComparisonSurvey}} selected{{end}}>{{.}}</option>
{{end}}</select>
<p><button type="submit">Apply</button></p>
</form>
</aside>
<main>
<h1>{{.Title}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Dashboard}}
<h2>Key metric</h2>
{{if .KPI}}<div class="metric">{{.KPI.Label}}: {{value .KPI.Value}}</div>{{else}}<p>{{$.NoSelectionData}}</p>{{end}}

<h2>{{.TrendTitle}}</h2>
{{if hasValues .Trend}}<img src="/api/v1/charts/trend.png?{{$.Query}}" alt="{{.TrendTitle}}">{{else}}<p>{{$.NoChartData}}</p>{{end}}

<h2>{{.ComparisonTitle}}</h2>
{{if .Comparison}}<img src="/api/v1/charts/comparison.png?{{$.Query}}" alt="{{.ComparisonTitle}}">
<p>{{stats .ComparisonStats}}</p>{{else}}<p>{{$.NoChartData}}</p>{{end}}

<h2>Interactive charts</h2>
<iframe src="/charts?{{$.Query}}" width="100%" height="1100" frameborder="0"></iframe>

<h2>Raw data</h2>
<p><a href="/api/v1/export.xlsx?{{$.Query}}">Download xlsx</a> | <a href="/api/v1/table.md?{{$.Query}}">Markdown</a></p>
{{if .Filtered}}{{$.Table}}{{else}}<p>{{$.NoChartData}}</p>{{end}}
{{end}}
</main>
</body>
</html>
`
