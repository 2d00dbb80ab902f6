package plot

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// missingValue is how echarts marks a gap in a series.
const missingValue = "-"

// DashboardCharts writes an HTML page with an interactive trend line and
// comparison bar chart. Empty views are left out of the page.
func DashboardCharts(w io.Writer, d *models.Dashboard) error {
	page := components.NewPage()
	if len(d.Trend) > 0 {
		page.AddCharts(trendLineChart(d.TrendTitle, d.Trend))
	}
	if len(d.Comparison) > 0 {
		page.AddCharts(comparisonBarChart(d.ComparisonTitle, d.Comparison))
	}
	return page.Render(w)
}

func trendLineChart(title string, points []models.TrendPoint) *charts.Line {
	surveys := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		surveys[i] = p.Survey
		if p.Value == nil {
			data[i] = opts.LineData{Value: missingValue}
			continue
		}
		data[i] = opts.LineData{Value: *p.Value}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)
	line.SetXAxis(surveys).AddSeries(title, data)
	return line
}

func comparisonBarChart(title string, rows []models.ComparisonRow) *charts.Bar {
	regions := make([]string, len(rows))
	data := make([]opts.BarData, len(rows))
	for i, row := range rows {
		regions[i] = row.Region
		data[i] = opts.BarData{Value: row.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "560px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 90}}),
	)
	bar.SetXAxis(regions).AddSeries(title, data)
	return bar
}
