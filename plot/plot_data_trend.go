package plot

import (
	"github.com/wcharczuk/go-chart/v2"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// trendForGraph keeps every survey round on the x axis, but only rounds with
// a value become points of the line.
type trendForGraph struct {
	surveys   []string
	xValues   []float64
	yValues   []float64
	nameGraph string
}

func newTrendForGraph(points []models.TrendPoint, nameGraph string) trendForGraph {
	d := trendForGraph{
		surveys:   make([]string, len(points)),
		nameGraph: nameGraph,
	}
	for i, p := range points {
		d.surveys[i] = p.Survey
		if p.Value == nil {
			continue
		}
		d.xValues = append(d.xValues, float64(i))
		d.yValues = append(d.yValues, *p.Value)
	}
	return d
}

func (d trendForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d trendForGraph) getYValues() []float64 {
	return d.yValues
}
func (d trendForGraph) lenXValues() int {
	return len(d.surveys)
}

func (d trendForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	return chartDimensions(d.lenXValues(), minBarWidth)
}

// generateXTicks labels every round and adds blank ticks half a slot past
// both ends. go-chart takes the x range from the ticks, so a single round
// still gets a non-zero range.
func (d trendForGraph) generateXTicks() []chart.Tick {
	ticks := make([]chart.Tick, 0, len(d.surveys)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, s := range d.surveys {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: s})
	}
	return append(ticks, chart.Tick{Value: float64(len(d.surveys)) - 0.5})
}

func (d trendForGraph) generateGrid() []chart.Tick {
	return gridTicks(yRange(d.yValues))
}
