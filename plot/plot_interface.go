package plot

import "github.com/wcharczuk/go-chart/v2"

type dataForGraph interface {
	GetNameGraph() string
	getYValues() []float64
	lenXValues() int
	calculateChartDimensions(float64) (int, int)
	generateGrid() []chart.Tick
}

type barDataForGraph interface {
	dataForGraph
	generateBarValues() []chart.Value
}
