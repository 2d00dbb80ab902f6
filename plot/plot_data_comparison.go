package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

type comparisonForGraph struct {
	regions   []string
	yValues   []float64
	nameGraph string
}

func newComparisonForGraph(rows []models.ComparisonRow, nameGraph string) comparisonForGraph {
	d := comparisonForGraph{
		regions:   make([]string, len(rows)),
		yValues:   make([]float64, len(rows)),
		nameGraph: nameGraph,
	}
	for i, row := range rows {
		d.regions[i] = row.Region
		d.yValues[i] = row.Value
	}
	return d
}

func (d comparisonForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d comparisonForGraph) getYValues() []float64 {
	return d.yValues
}
func (d comparisonForGraph) lenXValues() int {
	return len(d.regions)
}

func (d comparisonForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	return chartDimensions(d.lenXValues(), minBarWidth)
}

func (d comparisonForGraph) generateBarValues() []chart.Value {
	bars := make([]chart.Value, 0, len(d.regions))
	for i, region := range d.regions {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: region,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("636efa"),
				StrokeColor: drawing.ColorFromHex("636efa"),
			},
		})
	}
	return bars
}

func (d comparisonForGraph) generateGrid() []chart.Tick {
	return gridTicks(yRange(d.yValues))
}
