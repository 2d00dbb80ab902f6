package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("plot: no data to display")

var (
	lineColor = drawing.ColorFromHex("636efa")
	gridStyle = chart.Style{
		StrokeColor:     drawing.ColorFromHex("c8c8c8"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{5.0, 5.0}, // Пунктирная линия
	}
)

// DrawTrendLine renders the trend as a PNG line chart with one marker per
// survey round. Rounds without a value stay on the x axis as a gap.
func DrawTrendLine(points []models.TrendPoint, title string) ([]byte, error) {
	data := newTrendForGraph(points, title)
	if len(data.getYValues()) == 0 {
		return nil, ErrNoData
	}

	ticks := data.generateGrid()
	width, height := data.calculateChartDimensions(60)
	graph := chart.Chart{
		Title:  data.GetNameGraph(),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  40,
				Bottom: customizePaddingX(data.surveys),
			},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Ticks: data.generateXTicks(),
			Range: &chart.ContinuousRange{
				Min: -0.5,
				Max: float64(data.lenXValues()) - 0.5,
			},
			Style: chart.Style{
				StrokeWidth:         2, // Толщина линии
				StrokeColor:         chart.ColorBlack,
				TextRotationDegrees: 45,
				FontSize:            12,
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: ticks[0].Value,
				Max: ticks[len(ticks)-1].Value,
			},
			Ticks: ticks,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: chart.ColorBlack,
				FontSize:    12,
			},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			&chart.ContinuousSeries{
				Name:    data.GetNameGraph(),
				XValues: data.xValues,
				YValues: data.yValues,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 3,
					DotColor:    lineColor,
					DotWidth:    5,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// DrawComparisonBar renders one bar per region, labels rotated vertically.
func DrawComparisonBar(rows []models.ComparisonRow, title string) ([]byte, error) {
	data := newComparisonForGraph(rows, title)
	if data.lenXValues() == 0 {
		return nil, ErrNoData
	}
	return drawPlotBar(data)
}

func drawPlotBar(data barDataForGraph) ([]byte, error) {
	barValues := data.generateBarValues()
	ticks := data.generateGrid()
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(40)

	bar := chart.BarChart{}
	bar.Title = data.GetNameGraph()
	bar.Background = chart.Style{
		StrokeColor: chart.ColorBlack,
		Padding: chart.Box{
			Bottom: paddingX,
			Top:    50,
		},
	}
	bar.Height = height + paddingX
	bar.Width = width + 50
	bar.BarWidth = 30
	bar.Bars = barValues
	bar.YAxis = chart.YAxis{
		Range: &chart.ContinuousRange{
			Min: ticks[0].Value,
			Max: ticks[len(ticks)-1].Value,
		},
		Style: chart.Style{
			StrokeWidth: 2, // Толщина линии
			StrokeColor: chart.ColorBlack,
			FontSize:    12,
		},
		Ticks:          ticks,
		GridMajorStyle: gridStyle,
	}
	bar.XAxis = chart.Style{
		StrokeWidth:         2,
		StrokeColor:         chart.ColorBlack,
		TextRotationDegrees: 90,
		FontSize:            12,
	}

	buffer := bytes.NewBuffer([]byte{})
	// Отрисовываем график в формате PNG
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func chartDimensions(n int, minBarWidth float64) (width, height int) {
	// Проверка входных параметров
	if n <= 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if n < 2 {
		x = 5.0
	} else if n < 10 {
		x = 2.0
	}

	// Константы для отступов и пропорций
	const (
		paddingY     = 100        // отступ для оси Y и подписей
		spacingRatio = 0.2        // соотношение отступа между столбцами к ширине столбца
		aspectRatio  = 9.0 / 16.0 // соотношение сторон по умолчанию
		minHeight    = 400
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(n) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	if height < minHeight {
		height = minHeight
	}
	return width, height
}

// yRange always includes zero and never collapses to a single value.
func yRange(values []float64) (lo, hi float64) {
	hi = findMaxValue(values)
	lo = findMinValue(values)
	if lo > 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// gridTicks covers [lo, hi] with evenly spaced ticks. The first and last tick
// are the axis bounds.
func gridTicks(lo, hi float64) []chart.Tick {
	step := calculateGridStep(hi - lo)
	start := math.Floor(lo/step) * step

	var ticks []chart.Tick
	for i := 0; i < 100; i++ {
		v := start + float64(i)*step
		ticks = append(ticks, chart.Tick{
			Value: v,
			Label: fmt.Sprintf("%.1f", v),
		})
		if v >= hi {
			break
		}
	}
	return ticks
}

func calculateGridStep(maxValue float64) float64 {
	// Проверка на корректность входного значения
	if maxValue <= 0 {
		return 0
	}

	// Обработка очень маленьких чисел
	if maxValue < 1e-10 {
		return 1e-10
	}

	// Находим порядок величины максимального значения
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))

	// Нормализуем значение к диапазону [1, 10)
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude

	// Округляем большие шаги до "красивых" чисел
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func findMinValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	min := y[0]
	for _, v := range y {
		if v < min {
			min = v
		}
	}
	return min
}

func customizePaddingXBottom(values []chart.Value) int {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = v.Label
	}
	return customizePaddingX(labels)
}

func customizePaddingX(labels []string) int {
	count := 0
	for _, l := range labels {
		if len(l) > count {
			count = len(l)
		}
	}
	return 40 + count*8
}
